package cpu

import "github.com/Urethramancer/musa68k/internal/logger"

// Bus is the memory interface the CPU executes against. CheckPC receives a
// direct program counter formed against the current MemBase and returns it
// rebased onto the page it addresses, updating MemBase on the way.
type Bus interface {
	CheckPC(pc uintptr) uintptr
	Read8(addr uint32) uint8
	Read16(addr uint32) uint16
	Read32(addr uint32) uint32
	Write8(addr uint32, val uint8)
	Write16(addr uint32, val uint16)
	Write32(addr uint32, val uint32)
}

// Fetcher is optionally implemented by a Bus that serves program space
// separately from data space. Without it, fetches are plain reads.
type Fetcher interface {
	Fetch8(addr uint32) uint8
	Fetch16(addr uint32) uint16
	Fetch32(addr uint32) uint32
}

type readFetcher struct {
	Bus
}

func (r readFetcher) Fetch8(addr uint32) uint8   { return r.Read8(addr) }
func (r readFetcher) Fetch16(addr uint32) uint16 { return r.Read16(addr) }
func (r readFetcher) Fetch32(addr uint32) uint32 { return r.Read32(addr) }

// CPU registers and execution state.
type CPU struct {
	// D is for data registers.
	D [8]uint32
	// A is for address registers. A7 is the active stack pointer.
	A [8]uint32
	// PC is the program counter as a direct pointer.
	PC uintptr
	// MemBase is the base PC was last rebased against. PC minus MemBase is
	// the logical program counter.
	MemBase uintptr
	// PrevPC is the direct pointer of the instruction executed last.
	PrevPC uintptr
	// PrevBase is the MemBase PrevPC was taken against.
	PrevBase uintptr
	// SRH is the system byte of the status register: T, S and the
	// interrupt mask.
	SRH uint8
	// CCR holds the condition codes X, N, Z, V and C.
	CCR uint8
	// OSP is the stack pointer of the mode not currently active.
	OSP uint32
	// IRQ is the latched interrupt level.
	IRQ uint32
	// StateFlags holds FlagStopped and FlagHalted.
	StateFlags uint32

	// Cycles is the remaining cycle budget of a Run. It goes negative when
	// the last instruction overshoots.
	Cycles int

	// RealTAS makes TAS write its result back to memory.
	RealTAS bool

	// IrqCallback acknowledges an interrupt of the given level. It returns a
	// vector number, AutoVector or Spurious.
	IrqCallback func(level int) int
	// ResetCallback runs when the RESET instruction executes.
	ResetCallback func()

	bus   Bus
	fetch Fetcher

	// A level 7 request is taken once per edge.
	nmiLatched bool
}

// State flags.
const (
	// FlagStopped is set by STOP and cleared by an interrupt.
	FlagStopped = 1 << 0
	// FlagHalted holds the CPU off the bus until cleared.
	FlagHalted = 1 << 4
)

// Interrupt acknowledge results.
const (
	// AutoVector asks the CPU to use the autovector for the level.
	AutoVector = -1
	// Spurious signals that no device answered the acknowledge.
	Spurious = -2
)

// Exception vector numbers.
const (
	VectorIllegal   = 4
	VectorPrivilege = 8
	VectorSpurious  = 24
	VectorAutoBase  = 24
	VectorTrapBase  = 32
	cyclesInterrupt = 44
	cyclesException = 34
)

// New creates a CPU wired to bus. Call Reset before running it.
func New(bus Bus) *CPU {
	c := &CPU{}
	c.Init(bus)
	return c
}

// Init clears all state and wires the CPU to bus. Callbacks are cleared too.
func (c *CPU) Init(bus Bus) {
	*c = CPU{bus: bus}
	if f, ok := bus.(Fetcher); ok {
		c.fetch = f
	} else {
		c.fetch = readFetcher{bus}
	}
}

// Reset performs a hardware reset: supervisor mode with interrupts masked,
// A7 loaded from address 0 and PC from address 4. Stop and halt are cleared.
func (c *CPU) Reset() {
	c.StateFlags = 0
	c.nmiLatched = false
	c.SRH = uint8((SRS | SRI0 | SRI1 | SRI2) >> 8)
	c.A[7] = c.bus.Read32(0)
	c.MemBase = 0
	c.PC = 0
	c.jump(c.bus.Read32(4))
	c.PrevPC, c.PrevBase = c.PC, c.MemBase
}

// Halted reports whether the halt flag is set.
func (c *CPU) Halted() bool {
	return c.StateFlags&FlagHalted != 0
}

// Stopped reports whether the CPU is waiting in STOP.
func (c *CPU) Stopped() bool {
	return c.StateFlags&FlagStopped != 0
}

func (c *CPU) logf(detail string, args ...any) {
	logger.Logf(logger.Allow, "cpu", detail, args...)
}
