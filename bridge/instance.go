package bridge

import (
	"github.com/Urethramancer/musa68k/cpu"
	"github.com/Urethramancer/musa68k/internal/logger"
	"github.com/Urethramancer/musa68k/memory"
)

// AckFunc acknowledges an interrupt of the given level. It returns a vector
// number, cpu.AutoVector or cpu.Spurious.
type AckFunc func(level int) int

// Config describes one instance.
type Config struct {
	// Name tags the instance's log entries.
	Name string
	// Memory is the page table the instance executes against. A fresh,
	// empty map is used when nil.
	Memory *memory.Map
	// Ack is the default interrupt acknowledge. When nil the pending level
	// is cleared and the autovector used.
	Ack AckFunc
	// ResetOnInit resets the CPU as part of Init.
	ResetOnInit bool
}

// Instance is one CPU with its own memory map, interrupt state and cycle
// counter. It is the bus of its core.
type Instance struct {
	name        string
	mem         *memory.Map
	core        *cpu.CPU
	irq         Interrupts
	ack         AckFunc
	resetOnInit bool

	cycles   int
	cycleEnd int
	running  bool
}

// NewInstance creates an initialised instance from cfg.
func NewInstance(cfg Config) *Instance {
	i := &Instance{
		name:        cfg.Name,
		mem:         cfg.Memory,
		ack:         cfg.Ack,
		resetOnInit: cfg.ResetOnInit,
		core:        &cpu.CPU{},
	}
	if i.name == "" {
		i.name = "m68k"
	}
	if i.mem == nil {
		i.mem = memory.New()
	}
	i.Init()
	return i
}

// Init clears the CPU and wires it to the instance: program counter
// rebasing, memory access and the default interrupt acknowledge. Callbacks
// set earlier are dropped.
func (i *Instance) Init() {
	i.core.Init(i)
	i.core.IrqCallback = i.acknowledge
	i.irq = Interrupts{core: i.core}
	i.cycles = 0
	i.cycleEnd = 0
	if i.resetOnInit {
		i.core.Reset()
	}
}

// PulseReset resets the CPU: supervisor mode, interrupts masked, stack
// pointer and program counter loaded from the vector table. Halt and stop
// are released. Callbacks are kept.
func (i *Instance) PulseReset() {
	i.core.Reset()
}

// Run executes for budget cycles and returns the cycles used. Execution
// stops at the first instruction boundary at or past the budget, so a
// budget of zero executes one instruction. When called from inside another
// Run, the cycles used are charged to the outer budget and counted once,
// by the outer Run.
func (i *Instance) Run(budget int) int {
	outer, outerEnd, nested := i.core.Cycles, i.cycleEnd, i.running
	i.running = true

	i.cycleEnd = budget
	i.core.Cycles = budget
	i.core.Run()
	used := budget - i.core.Cycles

	i.running = nested
	if nested {
		i.core.Cycles = outer - used
		i.cycleEnd = outerEnd
	} else {
		i.cycles += used
	}
	return used
}

// Cycles returns the cycle counter.
func (i *Instance) Cycles() int {
	return i.cycles
}

// SetCycles sets the cycle counter.
func (i *Instance) SetCycles(n int) {
	i.cycles = n
}

// CycleEnd returns the budget of the last Run.
func (i *Instance) CycleEnd() int {
	return i.cycleEnd
}

// SetIntAckCallback replaces the interrupt acknowledge. nil restores the
// default.
func (i *Instance) SetIntAckCallback(f AckFunc) {
	if f == nil {
		i.core.IrqCallback = i.acknowledge
		return
	}
	i.core.IrqCallback = f
}

// SetResetInstrCallback sets the function called when the RESET
// instruction executes.
func (i *Instance) SetResetInstrCallback(f func()) {
	i.core.ResetCallback = f
}

// SetRealTAS chooses whether TAS writes its result back to memory.
func (i *Instance) SetRealTAS(enabled bool) {
	i.core.RealTAS = enabled
}

// Name returns the instance name.
func (i *Instance) Name() string {
	return i.name
}

// Memory returns the page table of the instance.
func (i *Instance) Memory() *memory.Map {
	return i.mem
}

// Core returns the CPU driven by the instance.
func (i *Instance) Core() *cpu.CPU {
	return i.core
}

// Interrupts returns the interrupt state of the instance.
func (i *Instance) Interrupts() *Interrupts {
	return &i.irq
}

// CheckPC rebases a direct program counter onto the page it addresses.
func (i *Instance) CheckPC(pc uintptr) uintptr {
	return i.mem.Rebase(&i.core.MemBase, pc)
}

// Read8 implements cpu.Bus.
func (i *Instance) Read8(addr uint32) uint8 { return i.mem.Read8(addr) }

// Read16 implements cpu.Bus.
func (i *Instance) Read16(addr uint32) uint16 { return i.mem.Read16(addr) }

// Read32 implements cpu.Bus.
func (i *Instance) Read32(addr uint32) uint32 { return i.mem.Read32(addr) }

// Write8 implements cpu.Bus.
func (i *Instance) Write8(addr uint32, val uint8) { i.mem.Write8(addr, val) }

// Write16 implements cpu.Bus.
func (i *Instance) Write16(addr uint32, val uint16) { i.mem.Write16(addr, val) }

// Write32 implements cpu.Bus.
func (i *Instance) Write32(addr uint32, val uint32) { i.mem.Write32(addr, val) }

// Program space is read through the same router as data space.

// Fetch8 implements cpu.Fetcher.
func (i *Instance) Fetch8(addr uint32) uint8 { return i.mem.Read8(addr) }

// Fetch16 implements cpu.Fetcher.
func (i *Instance) Fetch16(addr uint32) uint16 { return i.mem.Read16(addr) }

// Fetch32 implements cpu.Fetcher.
func (i *Instance) Fetch32(addr uint32) uint32 { return i.mem.Read32(addr) }

func (i *Instance) logf(detail string, args ...any) {
	logger.Logf(logger.Allow, i.name, detail, args...)
}
