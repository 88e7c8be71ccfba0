package main

import (
	"fmt"
	"io"
	"os"

	"github.com/grimdork/climate/arg"

	"github.com/Urethramancer/musa68k/disassembler"
	"github.com/Urethramancer/musa68k/internal/logger"
	"github.com/Urethramancer/musa68k/memory"
)

// dis68 lists a raw big-endian program image.
func main() {
	opt := arg.New("dis68")
	opt.SetDefaultHelp(true)
	opt.SetOption(arg.GroupDefault, "i", "input", "Program image to disassemble.", "", true, arg.VarString, nil)
	opt.SetOption(arg.GroupDefault, "o", "output", "Write the listing to a file instead of stdout.", "", false, arg.VarString, nil)
	opt.SetOption(arg.GroupDefault, "b", "base", "Address the image is loaded at.", 0, false, arg.VarInt, nil)
	opt.SetOption(arg.GroupDefault, "s", "start", "Offset into the image to start from.", 0, false, arg.VarInt, nil)
	opt.SetOption(arg.GroupDefault, "n", "count", "Instructions to list. 0 lists to the end of the image.", 0, false, arg.VarInt, nil)
	err := opt.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	code, err := os.ReadFile(opt.GetString("input"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
		os.Exit(1)
	}

	var w io.Writer = os.Stdout
	out := opt.GetString("output")
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	err = list(w, code, uint32(opt.GetInt("base")), uint32(opt.GetInt("start")), opt.GetInt("count"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Tail(os.Stderr, 10)
		os.Exit(1)
	}
}

// load maps code at base in a fresh memory map, padded out to whole pages.
func load(code []byte, base uint32) (*memory.Map, error) {
	end := uint64(base) + uint64(len(code))
	if len(code) == 0 || end > 1<<24 {
		return nil, fmt.Errorf("image of %d bytes does not fit at $%06x", len(code), base)
	}

	first := memory.PageOf(base)
	last := memory.PageOf(uint32(end - 1))
	buf := make([]byte, (int(last)-int(first)+1)*memory.PageSize)
	copy(buf[base%memory.PageSize:], code)

	m := memory.New()
	m.MapRegion(first, last, buf)
	return m, nil
}

// list writes count instructions from start, or everything up to the end of
// the image when count is 0.
func list(w io.Writer, code []byte, base, start uint32, count int) error {
	if start >= uint32(len(code)) || start&1 != 0 {
		return fmt.Errorf("start offset $%x is odd or outside the image", start)
	}

	m, err := load(code, base)
	if err != nil {
		return err
	}

	addr := base + start
	end := base + uint32(len(code))
	for n := 0; count == 0 || n < count; n++ {
		if count == 0 && addr >= end {
			break
		}
		inst := disassembler.Decode(m, addr)
		if _, err := fmt.Fprintln(w, inst); err != nil {
			return err
		}
		addr += inst.Size
	}
	return nil
}
