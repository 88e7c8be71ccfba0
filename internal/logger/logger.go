// Package logger is the central log for the bridge and its cores. Entries are
// tagged, bounded in number, and consecutive duplicates are folded into a
// repeat count so that a misbehaving host polling the same bad register every
// frame does not flood the log.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Entry is a single line in the log.
type Entry struct {
	Timestamp time.Time
	Tag       string
	Detail    string
	Repeated  int
}

func (e Entry) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s: %s", e.Tag, e.Detail))
	if e.Repeated > 0 {
		s.WriteString(fmt.Sprintf(" (repeat x%d)", e.Repeated+1))
	}
	s.WriteString("\n")
	return s.String()
}

// Permission implementations decide whether a log request may create an
// entry.
type Permission interface {
	AllowLogging() bool
}

type allow struct{}

func (allow) AllowLogging() bool { return true }

type deny struct{}

func (deny) AllowLogging() bool { return false }

// Allow always permits logging.
var Allow Permission = allow{}

// Deny never permits logging.
var Deny Permission = deny{}

// maximum number of entries kept by the central log.
const maxEntries = 256

type logger struct {
	crit    sync.Mutex
	entries []Entry
	echo    io.Writer
}

var central = &logger{entries: make([]Entry, 0, maxEntries)}

func (l *logger) log(tag, detail string) {
	l.crit.Lock()
	defer l.crit.Unlock()

	tag = strings.ReplaceAll(tag, "\n", "")
	detail = strings.ReplaceAll(detail, "\n", "")

	if n := len(l.entries); n > 0 && l.entries[n-1].Tag == tag && l.entries[n-1].Detail == detail {
		l.entries[n-1].Repeated++
		l.entries[n-1].Timestamp = time.Now()
	} else {
		l.entries = append(l.entries, Entry{Timestamp: time.Now(), Tag: tag, Detail: detail})
		if len(l.entries) > maxEntries {
			l.entries = l.entries[len(l.entries)-maxEntries:]
		}
		if l.echo != nil {
			io.WriteString(l.echo, l.entries[len(l.entries)-1].String())
		}
	}
}

// Log adds an entry to the central log.
func Log(perm Permission, tag, detail string) {
	if perm == nil || !perm.AllowLogging() {
		return
	}
	central.log(tag, detail)
}

// Logf adds a formatted entry to the central log.
func Logf(perm Permission, tag, detail string, args ...any) {
	if perm == nil || !perm.AllowLogging() {
		return
	}
	central.log(tag, fmt.Sprintf(detail, args...))
}

// Clear removes all entries.
func Clear() {
	central.crit.Lock()
	defer central.crit.Unlock()
	central.entries = central.entries[:0]
}

// Write every entry to output. Returns false if the log is empty.
func Write(output io.Writer) bool {
	central.crit.Lock()
	defer central.crit.Unlock()
	if len(central.entries) == 0 {
		return false
	}
	for _, e := range central.entries {
		io.WriteString(output, e.String())
	}
	return true
}

// Tail writes the last number entries to output.
func Tail(output io.Writer, number int) {
	central.crit.Lock()
	defer central.crit.Unlock()
	number = max(0, min(number, len(central.entries)))
	for _, e := range central.entries[len(central.entries)-number:] {
		io.WriteString(output, e.String())
	}
}

// SetEcho copies new entries to output as they are made. A nil writer turns
// echoing off. Folded repeats are not echoed.
func SetEcho(output io.Writer) {
	central.crit.Lock()
	defer central.crit.Unlock()
	central.echo = output
}

// Entries returns a copy of the log.
func Entries() []Entry {
	central.crit.Lock()
	defer central.crit.Unlock()
	c := make([]Entry, len(central.entries))
	copy(c, central.entries)
	return c
}
