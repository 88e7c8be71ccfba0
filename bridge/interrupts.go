package bridge

import "github.com/Urethramancer/musa68k/cpu"

// DelayState tracks whether a delayed interrupt request is running its
// single instruction.
type DelayState int

// List of valid DelayState values.
const (
	Idle DelayState = iota
	DelayPending
)

func (s DelayState) String() string {
	if s == DelayPending {
		return "pending"
	}
	return "idle"
}

// Interrupts is the interrupt request state of one instance. The level is
// held in two encodings: the native one the core recognises and the host
// one, which is the native level shifted into bits 8-10.
type Interrupts struct {
	core  *cpu.CPU
	host  uint32
	state DelayState
	depth int
	peak  int
}

// hostLevel converts a native level to the host encoding.
func hostLevel(native uint32) uint32 {
	return native << 8
}

// set stores level in both encodings.
func (irq *Interrupts) set(level uint32) {
	irq.core.IRQ = level
	irq.host = hostLevel(level)
}

// merge ORs mask into both encodings.
func (irq *Interrupts) merge(mask uint32) {
	irq.core.IRQ |= mask
	irq.host |= hostLevel(mask)
}

// enter moves to DelayPending. It reports false if a delay is already in
// progress.
func (irq *Interrupts) enter() bool {
	if irq.state == DelayPending {
		return false
	}
	irq.state = DelayPending
	irq.depth++
	if irq.depth > irq.peak {
		irq.peak = irq.depth
	}
	return true
}

func (irq *Interrupts) leave() {
	irq.depth--
	irq.state = Idle
}

// Level returns the native interrupt level.
func (irq *Interrupts) Level() uint32 {
	return irq.core.IRQ
}

// HostLevel returns the interrupt level in the host encoding.
func (irq *Interrupts) HostLevel() uint32 {
	return irq.host
}

// State returns the delay state.
func (irq *Interrupts) State() DelayState {
	return irq.state
}

// Depth returns how many delayed requests are currently running their
// instruction. It is never more than one.
func (irq *Interrupts) Depth() int {
	return irq.depth
}

// MaxDepth returns the greatest Depth seen since the instance was
// initialised.
func (irq *Interrupts) MaxDepth() int {
	return irq.peak
}

// SetIRQ sets the interrupt level and applies it at once. Cycles spent
// taking an interrupt are added to the cycle counter, once.
func (i *Instance) SetIRQ(level uint32) {
	i.irq.set(level)
	i.flush()
}

// SetIRQDelay lets the instruction in flight complete before level is
// applied. When called while another delayed request is running its
// instruction, the level is applied immediately instead.
func (i *Instance) SetIRQDelay(level uint32) {
	if i.irq.enter() {
		i.Run(0)
		i.irq.leave()
	}
	i.SetIRQ(level)
}

// UpdateIRQ ORs mask into the interrupt level and applies it, for sources
// that share one acknowledge path.
func (i *Instance) UpdateIRQ(mask uint32) {
	i.irq.merge(mask)
	i.flush()
}

// PulseHalt holds the CPU off the bus. Run consumes its budget without
// executing until ClearHalt.
func (i *Instance) PulseHalt() {
	i.core.StateFlags |= cpu.FlagHalted
}

// ClearHalt releases a halt.
func (i *Instance) ClearHalt() {
	i.core.StateFlags &^= cpu.FlagHalted
}

// Halted reports whether the instance is halted.
func (i *Instance) Halted() bool {
	return i.core.Halted()
}

// flush applies the latched level. Inside Run the cycles come off the
// core's budget and Run counts them.
func (i *Instance) flush() {
	n := i.core.FlushIrq()
	if !i.running {
		i.cycles += n
	}
}

// acknowledge is the interrupt acknowledge installed by Init. Without a
// configured AckFunc it clears the request and asks for the autovector.
func (i *Instance) acknowledge(level int) int {
	if i.ack != nil {
		return i.ack(level)
	}
	i.irq.set(0)
	return cpu.AutoVector
}
