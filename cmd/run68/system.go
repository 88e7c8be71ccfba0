package main

import (
	"fmt"
	"io"

	"github.com/Urethramancer/musa68k/bridge"
	"github.com/Urethramancer/musa68k/disassembler"
	"github.com/Urethramancer/musa68k/memory"
)

// Address layout of the runner.
const (
	// master program image from page 0 up to the work RAM
	romFirst = 0x00
	romLimit = 0xE0
	// master work RAM, mirrored up to the top of the address space
	workFirst = 0xE0
	workLast  = 0xFF
	// slave program RAM
	prgFirst = 0x00
	prgLast  = 0x07
	prgSize  = (prgLast - prgFirst + 1) * memory.PageSize
)

// system is the master and slave CPUs with their memory.
type system struct {
	dual *bridge.Dual
	rom  []byte
	work []byte
	prg  []byte
}

// pad rounds data up to a whole number of pages.
func pad(data []byte) []byte {
	n := (len(data) + memory.PageSize - 1) / memory.PageSize
	if n == 0 {
		n = 1
	}
	buf := make([]byte, n*memory.PageSize)
	copy(buf, data)
	return buf
}

// newSystem maps the images and resets both CPUs. The slave image is
// optional.
func newSystem(master, slave []byte) (*system, error) {
	if len(master) < 8 {
		return nil, fmt.Errorf("master image is %d bytes, too short for a vector table", len(master))
	}
	if len(master) > (romLimit-romFirst)*memory.PageSize {
		return nil, fmt.Errorf("master image is %d bytes, it would overlap work RAM", len(master))
	}
	if len(slave) > prgSize {
		return nil, fmt.Errorf("slave image is %d bytes, program RAM is %d", len(slave), prgSize)
	}

	s := &system{
		rom:  pad(master),
		work: make([]byte, memory.PageSize),
		prg:  make([]byte, prgSize),
	}
	copy(s.prg, slave)

	mm := memory.New()
	mm.MapRegion(romFirst, uint8(romFirst+len(s.rom)/memory.PageSize-1), s.rom)
	mm.MapRegion(workFirst, workLast, s.work)

	sm := memory.New()
	sm.MapRegion(prgFirst, prgLast, s.prg)

	s.dual = bridge.NewDual(
		bridge.Config{Name: "m68k", Memory: mm},
		bridge.Config{Name: "s68k", Memory: sm, ResetOnInit: true},
	)
	s.dual.Master.PulseReset()
	if slave == nil {
		s.dual.Slave.PulseHalt()
	}
	return s, nil
}

// frame runs both CPUs for cycles each, then raises level on the master.
// The level stays latched until the master acknowledges it.
func (s *system) frame(cycles int, level uint32) {
	s.dual.Run(cycles, cycles)
	if level != 0 {
		s.dual.Master.SetIRQDelay(level)
	}
}

// trace single-steps the master n times, printing each instruction before
// it executes.
func (s *system) trace(w io.Writer, n int) {
	m := s.dual.Master
	for i := 0; i < n; i++ {
		fmt.Fprintln(w, disassembler.Decode(m, m.Register(bridge.RegPC)))
		m.Run(0)
	}
}

// cpuState is a register snapshot of one instance.
type cpuState struct {
	Name   string
	D      [8]uint32
	A      [8]uint32
	PC     uint32
	SR     uint32
	USP    uint32
	ISP    uint32
	IRQ    uint32
	Cycles int
	Halted bool
}

func snapshot(inst *bridge.Instance) *cpuState {
	st := &cpuState{
		Name:   inst.Name(),
		PC:     inst.Register(bridge.RegPC),
		SR:     inst.Register(bridge.RegSR),
		USP:    inst.Register(bridge.RegUSP),
		ISP:    inst.Register(bridge.RegISP),
		IRQ:    inst.Interrupts().Level(),
		Cycles: inst.Cycles(),
		Halted: inst.Halted(),
	}
	for i := 0; i < 8; i++ {
		st.D[i] = inst.Register(bridge.RegD0 + bridge.Register(i))
		st.A[i] = inst.Register(bridge.RegA0 + bridge.Register(i))
	}
	return st
}

// dump prints the registers of an instance. With bold set the name is
// highlighted for a terminal.
func dump(w io.Writer, st *cpuState, bold bool) {
	name := st.Name
	if bold {
		name = "\x1b[1m" + name + "\x1b[0m"
	}
	fmt.Fprintf(w, "%s  PC=%06X SR=%04X USP=%08X ISP=%08X IRQ=%d cycles=%d", name, st.PC, st.SR, st.USP, st.ISP, st.IRQ, st.Cycles)
	if st.Halted {
		fmt.Fprint(w, " halted")
	}
	fmt.Fprintln(w)
	for i := 0; i < 8; i++ {
		fmt.Fprintf(w, "  D%d=%08X A%d=%08X\n", i, st.D[i], i, st.A[i])
	}
}
