package bridge

import (
	"fmt"

	"github.com/Urethramancer/musa68k/memory"
)

// Register identifies a register of the host-facing register file.
type Register int

// Register ids. RegA7 and RegSP address the same storage.
const (
	RegD0 Register = iota
	RegD1
	RegD2
	RegD3
	RegD4
	RegD5
	RegD6
	RegD7
	RegA0
	RegA1
	RegA2
	RegA3
	RegA4
	RegA5
	RegA6
	RegA7
	RegPC
	RegSR
	RegSP
	RegUSP
	RegISP
	RegPrefAddr
	RegPrefData
	RegIR
)

var registerNames = [...]string{
	"D0", "D1", "D2", "D3", "D4", "D5", "D6", "D7",
	"A0", "A1", "A2", "A3", "A4", "A5", "A6", "A7",
	"PC", "SR", "SP", "USP", "ISP", "PREF_ADDR", "PREF_DATA", "IR",
}

func (r Register) String() string {
	if r < 0 || int(r) >= len(registerNames) {
		return fmt.Sprintf("R%d", int(r))
	}
	return registerNames[r]
}

// ParseRegister looks a register up by name, as returned by String.
func ParseRegister(name string) (Register, bool) {
	for i, n := range registerNames {
		if n == name {
			return Register(i), true
		}
	}
	return 0, false
}

// Registers lists every known register id in order.
func Registers() []Register {
	regs := make([]Register, len(registerNames))
	for i := range regs {
		regs[i] = Register(i)
	}
	return regs
}

// Register returns the value of r. Unknown ids read as zero.
func (i *Instance) Register(r Register) uint32 {
	c := i.core
	switch {
	case r >= RegD0 && r <= RegD7:
		return c.D[r-RegD0]
	case r >= RegA0 && r <= RegA7:
		return c.A[r-RegA0]
	}

	switch r {
	case RegPC:
		return memory.Logical(c.MemBase, c.PC)
	case RegSR:
		return uint32(c.GetSR())
	case RegSP:
		return c.A[7]
	case RegUSP:
		if c.Supervisor() {
			return c.OSP
		}
		return c.A[7]
	case RegISP:
		if c.Supervisor() {
			return c.A[7]
		}
		return c.OSP
	case RegPrefAddr:
		return memory.Logical(c.PrevBase, c.PrevPC)
	case RegPrefData:
		return uint32(i.Fetch16(memory.Logical(c.PrevBase, c.PrevPC)))
	case RegIR:
		return uint32(i.Fetch16(memory.Logical(c.MemBase, c.PC)))
	}

	i.logf("read of unknown register %v", r)
	return 0
}

// SetRegister sets r to value. Writes to PREF_DATA, IR and unknown ids are
// ignored.
func (i *Instance) SetRegister(r Register, value uint32) {
	c := i.core
	switch {
	case r >= RegD0 && r <= RegD7:
		c.D[r-RegD0] = value
		return
	case r >= RegA0 && r <= RegA7:
		c.A[r-RegA0] = value
		return
	}

	switch r {
	case RegPC:
		c.PC = i.CheckPC(uintptr(value) + c.MemBase)
	case RegSR:
		c.SetSR(uint16(value))
	case RegSP:
		c.A[7] = value
	case RegUSP:
		if c.Supervisor() {
			c.OSP = value
		} else {
			c.A[7] = value
		}
	case RegISP:
		if c.Supervisor() {
			c.A[7] = value
		} else {
			c.OSP = value
		}
	case RegPrefAddr:
		c.PrevPC = i.mem.Rebase(&c.PrevBase, uintptr(value)+c.PrevBase)
	case RegPrefData, RegIR:
	default:
		i.logf("write of unknown register %v", r)
	}
}
