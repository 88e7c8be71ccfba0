// Package memory is the banked address decoder shared by the bridge and its
// cores. A 24-bit address space is split into 256 pages of 64KB, selected by
// the high byte of the address. Each page may carry peripheral handlers for
// 8- and 16-bit accesses and a flat region backing it.
package memory

import (
	"encoding/binary"
	"unsafe"

	"github.com/Urethramancer/musa68k/internal/logger"
)

const (
	// PageCount is the number of page descriptors in a map.
	PageCount = 256
	// PageSize is the span of a single page.
	PageSize = 0x10000
)

// Reader8 is implemented by peripherals that handle byte reads.
type Reader8 interface {
	Read8(addr uint32) uint8
}

// Reader16 is implemented by peripherals that handle word reads.
type Reader16 interface {
	Read16(addr uint32) uint16
}

// Writer8 is implemented by peripherals that handle byte writes.
type Writer8 interface {
	Write8(addr uint32, val uint8)
}

// Writer16 is implemented by peripherals that handle word writes.
type Writer16 interface {
	Write16(addr uint32, val uint16)
}

// HandlerFuncs adapts plain functions to the handler interfaces. Nil fields
// leave the matching slot of the page empty.
type HandlerFuncs struct {
	Read8   func(addr uint32) uint8
	Read16  func(addr uint32) uint16
	Write8  func(addr uint32, val uint8)
	Write16 func(addr uint32, val uint16)
}

// Page is a single descriptor of the page table.
type Page struct {
	read8   func(addr uint32) uint8
	read16  func(addr uint32) uint16
	write8  func(addr uint32, val uint8)
	write16 func(addr uint32, val uint16)

	region []byte
	base   uintptr
}

// HasHandler reports whether any handler slot of the page is filled.
func (p Page) HasHandler() bool {
	return p.read8 != nil || p.read16 != nil || p.write8 != nil || p.write16 != nil
}

// Mapped reports whether the page resolves accesses at all.
func (p Page) Mapped() bool {
	return p.HasHandler() || p.region != nil
}

// Region returns the flat memory behind the page, or nil.
func (p Page) Region() []byte {
	return p.region
}

// Base returns the host base of the page. For a flat page, base plus a
// logical address inside the page is the host address of that byte. Pages
// without a region have a base of zero.
func (p Page) Base() uintptr {
	return p.base
}

// Option configures a Map.
type Option func(*Map)

// Exclusive makes a handler the only target of the access it serves. Without
// it a write handler runs and the flat region is written as well.
func Exclusive() Option {
	return func(m *Map) {
		m.exclusive = true
	}
}

// WithLog reports accesses to pages that have neither a handler nor a region.
func WithLog(perm logger.Permission) Option {
	return func(m *Map) {
		m.perm = perm
	}
}

// Map is the page table.
type Map struct {
	pages     [PageCount]Page
	exclusive bool
	perm      logger.Permission
}

// New creates an empty map. Every page starts unmapped.
func New(opts ...Option) *Map {
	m := &Map{perm: logger.Deny}
	for _, o := range opts {
		o(m)
	}
	return m
}

// PageOf returns the page index that addr falls in.
func PageOf(addr uint32) uint8 {
	return uint8(addr >> 16)
}

// Page returns a copy of descriptor n.
func (m *Map) Page(n uint8) Page {
	return m.pages[n]
}

// Region returns the flat memory of page n, or nil.
func (m *Map) Region(n uint8) []byte {
	return m.pages[n].region
}

// Base returns the host base of page n.
func (m *Map) Base(n uint8) uintptr {
	return m.pages[n].base
}

// Exclusive reports whether handlers suppress flat accesses.
func (m *Map) Exclusive() bool {
	return m.exclusive
}

// MapRegion points pages first to last at consecutive 64KB chunks of buf. When
// the range is larger than buf the chunks repeat, mirroring buf across the
// range. The length of buf must be a non-zero multiple of PageSize.
func (m *Map) MapRegion(first, last uint8, buf []byte) {
	if len(buf) == 0 || len(buf)%PageSize != 0 {
		panic("mapped region size must be a non-zero multiple of 64KB")
	}
	chunks := len(buf) / PageSize
	for i := int(first); i <= int(last); i++ {
		off := ((i - int(first)) % chunks) * PageSize
		p := &m.pages[i]
		p.region = buf[off : off+PageSize : off+PageSize]
		p.base = uintptr(unsafe.Pointer(unsafe.SliceData(p.region))) - uintptr(i)<<16
	}
}

// SetHandler installs h on pages first to last. Only the slots matching the
// interfaces h implements are filled; the others are cleared.
func (m *Map) SetHandler(first, last uint8, h any) {
	var p Page
	switch h := h.(type) {
	case HandlerFuncs:
		p.read8, p.read16, p.write8, p.write16 = h.Read8, h.Read16, h.Write8, h.Write16
	case *HandlerFuncs:
		p.read8, p.read16, p.write8, p.write16 = h.Read8, h.Read16, h.Write8, h.Write16
	default:
		if r, ok := h.(Reader8); ok {
			p.read8 = r.Read8
		}
		if r, ok := h.(Reader16); ok {
			p.read16 = r.Read16
		}
		if w, ok := h.(Writer8); ok {
			p.write8 = w.Write8
		}
		if w, ok := h.(Writer16); ok {
			p.write16 = w.Write16
		}
	}
	for i := int(first); i <= int(last); i++ {
		m.pages[i].read8 = p.read8
		m.pages[i].read16 = p.read16
		m.pages[i].write8 = p.write8
		m.pages[i].write16 = p.write16
	}
}

// Unmap clears handlers and regions from pages first to last.
func (m *Map) Unmap(first, last uint8) {
	for i := int(first); i <= int(last); i++ {
		m.pages[i] = Page{}
	}
}

func (m *Map) unmapped(addr uint32, write bool) {
	if write {
		logger.Logf(m.perm, "memory", "write to unmapped address %06X", addr&0xFFFFFF)
		return
	}
	logger.Logf(m.perm, "memory", "read from unmapped address %06X", addr&0xFFFFFF)
}

// Read8 reads a byte.
func (m *Map) Read8(addr uint32) uint8 {
	p := &m.pages[PageOf(addr)]
	if p.read8 != nil {
		return p.read8(addr)
	}
	off := addr & 0xFFFF
	if int(off) >= len(p.region) {
		m.unmapped(addr, false)
		return 0
	}
	return p.region[off]
}

// Read16 reads a big-endian word.
func (m *Map) Read16(addr uint32) uint16 {
	p := &m.pages[PageOf(addr)]
	if p.read16 != nil {
		return p.read16(addr)
	}
	off := addr & 0xFFFF
	if int(off)+2 > len(p.region) {
		m.unmapped(addr, false)
		return 0
	}
	return binary.BigEndian.Uint16(p.region[off:])
}

// Read32 reads a long word as two word reads, high half first.
func (m *Map) Read32(addr uint32) uint32 {
	return uint32(m.Read16(addr))<<16 | uint32(m.Read16(addr+2))
}

// Write8 writes a byte. The handler, if any, is called and then the flat
// region is written too, unless the map is exclusive.
func (m *Map) Write8(addr uint32, val uint8) {
	p := &m.pages[PageOf(addr)]
	if p.write8 != nil {
		p.write8(addr, val)
		if m.exclusive {
			return
		}
	}
	off := addr & 0xFFFF
	if int(off) >= len(p.region) {
		if p.write8 == nil {
			m.unmapped(addr, true)
		}
		return
	}
	p.region[off] = val
}

// Write16 writes a big-endian word, with the same handler rules as Write8.
func (m *Map) Write16(addr uint32, val uint16) {
	p := &m.pages[PageOf(addr)]
	if p.write16 != nil {
		p.write16(addr, val)
		if m.exclusive {
			return
		}
	}
	off := addr & 0xFFFF
	if int(off)+2 > len(p.region) {
		if p.write16 == nil {
			m.unmapped(addr, true)
		}
		return
	}
	binary.BigEndian.PutUint16(p.region[off:], val)
}

// Write32 writes a long word as two word writes, high half first.
func (m *Map) Write32(addr uint32, val uint32) {
	m.Write16(addr, uint16(val>>16))
	m.Write16(addr+2, uint16(val))
}
