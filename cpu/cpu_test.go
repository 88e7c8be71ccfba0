package cpu_test

import (
	"encoding/binary"
	"testing"

	"github.com/Urethramancer/musa68k/cpu"
	"github.com/Urethramancer/musa68k/internal/test"
	"github.com/Urethramancer/musa68k/memory"
)

// Vector table of the test system.
const (
	stackTop   = 0xFF8000
	resetPC    = 0x000100
	irqHandler = 0x000200
	illHandler = 0x000300
	prvHandler = 0x000380
	trpHandler = 0x000400
)

// testBus wires a page map to a CPU and counts rebases.
type testBus struct {
	*memory.Map
	cpu    *cpu.CPU
	checks int
}

func (b *testBus) CheckPC(pc uintptr) uintptr {
	b.checks++
	return b.Rebase(&b.cpu.MemBase, pc)
}

type system struct {
	cpu *cpu.CPU
	bus *testBus
	rom []byte
	ram []byte
}

// newSystem builds a CPU with 128KB of ROM at 0x000000 and 64KB of RAM at
// 0xFF0000, loads program at resetPC and resets.
func newSystem(t *testing.T, program ...uint16) *system {
	t.Helper()
	s := &system{
		rom: make([]byte, 2*memory.PageSize),
		ram: make([]byte, memory.PageSize),
	}
	m := memory.New()
	m.MapRegion(0x00, 0x01, s.rom)
	m.MapRegion(0xFF, 0xFF, s.ram)

	binary.BigEndian.PutUint32(s.rom[0:], stackTop)
	binary.BigEndian.PutUint32(s.rom[4:], resetPC)
	binary.BigEndian.PutUint32(s.rom[cpu.VectorIllegal*4:], illHandler)
	binary.BigEndian.PutUint32(s.rom[cpu.VectorPrivilege*4:], prvHandler)
	binary.BigEndian.PutUint32(s.rom[cpu.VectorTrapBase*4:], trpHandler)
	for level := 1; level <= 7; level++ {
		binary.BigEndian.PutUint32(s.rom[(cpu.VectorAutoBase+level)*4:], irqHandler)
	}
	// Handlers idle on NOPs.
	for _, h := range []int{irqHandler, illHandler, prvHandler, trpHandler} {
		copy(s.rom[h:], cpu.WordsToBytes([]uint16{cpu.OPNOP, cpu.OPNOP}))
	}
	copy(s.rom[resetPC:], cpu.WordsToBytes(program))

	s.bus = &testBus{Map: m}
	s.cpu = cpu.New(s.bus)
	s.bus.cpu = s.cpu
	s.cpu.Reset()
	return s
}

func (s *system) pc() uint32 {
	return uint32(s.cpu.PC - s.cpu.MemBase)
}

// run executes with the given budget and returns the cycles used.
func (s *system) run(budget int) int {
	s.cpu.Cycles = budget
	s.cpu.Run()
	return budget - s.cpu.Cycles
}

func TestReset(t *testing.T) {
	s := newSystem(t, cpu.OPNOP)
	test.ExpectEquality(t, s.cpu.A[7], uint32(stackTop))
	test.ExpectEquality(t, s.pc(), uint32(resetPC))
	test.ExpectEquality(t, s.cpu.GetSR(), uint16(0x2700))
	test.ExpectEquality(t, s.cpu.MemBase, s.bus.Base(0x00))
	test.ExpectEquality(t, s.cpu.Supervisor(), true)

	s.cpu.StateFlags |= cpu.FlagHalted | cpu.FlagStopped
	s.cpu.Reset()
	test.ExpectEquality(t, s.cpu.StateFlags, uint32(0))
}

func TestInstructions(t *testing.T) {
	tests := []struct {
		name    string
		program []uint16
		setup   func(c *cpu.CPU)
		check   func(t *testing.T, s *system)
		cycles  int
	}{
		{
			name:    "MOVEQ_negative",
			program: []uint16{0x7080}, // moveq #-128,d0
			check: func(t *testing.T, s *system) {
				test.ExpectEquality(t, s.cpu.D[0], uint32(0xFFFFFF80))
				test.ExpectEquality(t, s.cpu.CCR&cpu.SRN != 0, true)
			},
			cycles: 4,
		},
		{
			name:    "MOVE_W_to_memory",
			program: []uint16{0x3080}, // move.w d0,(a0)
			setup: func(c *cpu.CPU) {
				c.D[0] = 0x1234ABCD
				c.A[0] = 0xFF0010
			},
			check: func(t *testing.T, s *system) {
				test.ExpectEquality(t, s.ram[0x10], byte(0xAB))
				test.ExpectEquality(t, s.ram[0x11], byte(0xCD))
			},
			cycles: 8,
		},
		{
			name:    "ADD_W_overflow",
			program: []uint16{0xD041}, // add.w d1,d0
			setup: func(c *cpu.CPU) {
				c.D[0] = 0x7FFF
				c.D[1] = 1
			},
			check: func(t *testing.T, s *system) {
				test.ExpectEquality(t, s.cpu.D[0], uint32(0x8000))
				test.ExpectEquality(t, s.cpu.CCR&(cpu.SRV|cpu.SRN), uint8(cpu.SRV|cpu.SRN))
			},
			cycles: 4,
		},
		{
			name:    "ADDQ_L",
			program: []uint16{0x5280}, // addq.l #1,d0
			setup:   func(c *cpu.CPU) { c.D[0] = 0xFFFFFFFF },
			check: func(t *testing.T, s *system) {
				test.ExpectEquality(t, s.cpu.D[0], uint32(0))
				test.ExpectEquality(t, s.cpu.CCR&(cpu.SRZ|cpu.SRC|cpu.SRX), uint8(cpu.SRZ|cpu.SRC|cpu.SRX))
			},
			cycles: 8,
		},
		{
			name:    "SUBQ_B_borrow",
			program: []uint16{0x5301}, // subq.b #1,d1
			check: func(t *testing.T, s *system) {
				test.ExpectEquality(t, s.cpu.D[1], uint32(0xFF))
				test.ExpectEquality(t, s.cpu.CCR&(cpu.SRN|cpu.SRC|cpu.SRX), uint8(cpu.SRN|cpu.SRC|cpu.SRX))
			},
			cycles: 4,
		},
		{
			name:    "LEA_abs_long",
			program: []uint16{0x41F9, 0x00FF, 0x1234}, // lea $ff1234,a0
			check: func(t *testing.T, s *system) {
				test.ExpectEquality(t, s.cpu.A[0], uint32(0xFF1234))
			},
			cycles: 12,
		},
		{
			name:    "MOVE_B_PC_relative",
			program: []uint16{0x103A, 0x0002, 0xAB00}, // move.b 2(pc),d0
			check: func(t *testing.T, s *system) {
				test.ExpectEquality(t, s.cpu.D[0], uint32(0xAB))
			},
			cycles: 12,
		},
		{
			name:    "BRA_S",
			program: []uint16{0x6002, cpu.OPNOP, cpu.OPNOP}, // bra.s +2
			check: func(t *testing.T, s *system) {
				test.ExpectEquality(t, s.pc(), uint32(resetPC+4))
			},
			cycles: 10,
		},
		{
			name:    "BNE_not_taken",
			program: []uint16{0x6602}, // bne.s +2
			setup:   func(c *cpu.CPU) { c.CCR = cpu.SRZ },
			check: func(t *testing.T, s *system) {
				test.ExpectEquality(t, s.pc(), uint32(resetPC+2))
			},
			cycles: 8,
		},
		{
			name:    "JSR_abs_long",
			program: []uint16{0x4EB9, 0x0000, 0x0400}, // jsr $400
			check: func(t *testing.T, s *system) {
				test.ExpectEquality(t, s.pc(), uint32(0x400))
				test.ExpectEquality(t, s.cpu.A[7], uint32(stackTop-4))
				test.ExpectEquality(t, binary.BigEndian.Uint32(s.ram[0x7FFC:]), uint32(resetPC+6))
			},
			cycles: 24,
		},
		{
			name:    "TRAP_0",
			program: []uint16{0x4E40},
			check: func(t *testing.T, s *system) {
				test.ExpectEquality(t, s.pc(), uint32(trpHandler))
				test.ExpectEquality(t, s.cpu.A[7], uint32(stackTop-6))
			},
			cycles: 34,
		},
		{
			name:    "unimplemented_opcode",
			program: []uint16{0xFFFF},
			check: func(t *testing.T, s *system) {
				test.ExpectEquality(t, s.pc(), uint32(illHandler))
				// stacked PC is the offending instruction
				test.ExpectEquality(t, binary.BigEndian.Uint32(s.ram[0x7FFC:]), uint32(resetPC))
			},
			cycles: 34,
		},
	}

	for _, tc := range tests {
		s := newSystem(t, tc.program...)
		if tc.setup != nil {
			tc.setup(s.cpu)
		}
		used := s.run(0)
		test.ExpectEquality(t, used, tc.cycles, tc.name)
		tc.check(t, s)
	}
}

func TestRunBudget(t *testing.T) {
	s := newSystem(t, 0x7001, 0x7202, 0x7403, 0x7604) // moveq #1..#4 into d0..d3

	// zero runs exactly one instruction
	test.ExpectEquality(t, s.run(0), 4)
	test.ExpectEquality(t, s.cpu.D[0], uint32(1))
	test.ExpectEquality(t, s.cpu.D[1], uint32(0))

	test.ExpectEquality(t, s.run(8), 8)
	test.ExpectEquality(t, s.cpu.D[2], uint32(3))
	test.ExpectEquality(t, s.cpu.D[3], uint32(0))

	// overshoot is reported
	test.ExpectEquality(t, s.run(1), 4)
}

func TestPageCrossing(t *testing.T) {
	s := newSystem(t)
	copy(s.rom[0xFFFC:], cpu.WordsToBytes([]uint16{cpu.OPNOP, cpu.OPNOP, 0x7405})) // nop; nop; moveq #5,d2

	s.cpu.PC = s.bus.CheckPC(0xFFFC + s.cpu.MemBase)
	test.ExpectEquality(t, s.cpu.MemBase, s.bus.Base(0x00))
	checks := s.bus.checks

	s.run(12)
	test.ExpectEquality(t, s.cpu.D[2], uint32(5))
	test.ExpectEquality(t, s.cpu.MemBase, s.bus.Base(0x01))
	test.ExpectEquality(t, s.pc(), uint32(0x10002))
	test.ExpectEquality(t, s.bus.checks, checks+1)
}

func TestSetSRSwapsStacks(t *testing.T) {
	s := newSystem(t)
	s.cpu.OSP = 0x1000 // user stack

	s.cpu.SetSR(0x0000)
	test.ExpectEquality(t, s.cpu.Supervisor(), false)
	test.ExpectEquality(t, s.cpu.A[7], uint32(0x1000))
	test.ExpectEquality(t, s.cpu.OSP, uint32(stackTop))

	// same mode, no swap
	s.cpu.SetSR(0x001F)
	test.ExpectEquality(t, s.cpu.A[7], uint32(0x1000))
	test.ExpectEquality(t, s.cpu.CCR, uint8(0x1F))

	s.cpu.SetSR(0x2700)
	test.ExpectEquality(t, s.cpu.A[7], uint32(stackTop))
	test.ExpectEquality(t, s.cpu.OSP, uint32(0x1000))

	// unimplemented bits are dropped
	s.cpu.SetSR(0xFFFF)
	test.ExpectEquality(t, s.cpu.GetSR(), uint16(0xA71F))
}

func TestFlushIrq(t *testing.T) {
	s := newSystem(t, cpu.OPNOP)

	var acked []int
	s.cpu.IrqCallback = func(level int) int {
		acked = append(acked, level)
		return cpu.AutoVector
	}

	// masked
	s.cpu.IRQ = 4
	test.ExpectEquality(t, s.cpu.FlushIrq(), 0)
	test.ExpectEquality(t, len(acked), 0)

	s.cpu.SetSR(0x2000)
	test.ExpectEquality(t, s.cpu.FlushIrq(), 44)
	test.DemandEquality(t, len(acked), 1)
	test.ExpectEquality(t, acked[0], 4)
	test.ExpectEquality(t, s.pc(), uint32(irqHandler))
	test.ExpectEquality(t, s.cpu.GetSR(), uint16(0x2400))

	// stacked SR and PC
	test.ExpectEquality(t, binary.BigEndian.Uint16(s.ram[0x7FFA:]), uint16(0x2000))
	test.ExpectEquality(t, binary.BigEndian.Uint32(s.ram[0x7FFC:]), uint32(resetPC))

	// the same level is now masked
	test.ExpectEquality(t, s.cpu.FlushIrq(), 0)
}

func TestInterruptVectors(t *testing.T) {
	s := newSystem(t, cpu.OPNOP)
	binary.BigEndian.PutUint32(s.rom[0x30*4:], 0x500)
	s.cpu.SetSR(0x2000)

	s.cpu.IrqCallback = func(level int) int { return 0x30 }
	s.cpu.IRQ = 2
	s.cpu.FlushIrq()
	test.ExpectEquality(t, s.pc(), uint32(0x500))

	s = newSystem(t, cpu.OPNOP)
	binary.BigEndian.PutUint32(s.rom[cpu.VectorSpurious*4:], 0x600)
	s.cpu.SetSR(0x2000)
	s.cpu.IrqCallback = func(level int) int { return cpu.Spurious }
	s.cpu.IRQ = 2
	s.cpu.FlushIrq()
	test.ExpectEquality(t, s.pc(), uint32(0x600))
}

func TestNMIEdge(t *testing.T) {
	s := newSystem(t, cpu.OPNOP)

	s.cpu.IRQ = 7
	test.ExpectEquality(t, s.cpu.FlushIrq(), 44)
	// held high, not taken again
	test.ExpectEquality(t, s.cpu.FlushIrq(), 0)

	s.cpu.IRQ = 0
	s.cpu.FlushIrq()
	s.cpu.IRQ = 7
	test.ExpectEquality(t, s.cpu.FlushIrq(), 44)

	// out of range levels are treated as 7
	s.cpu.IRQ = 0
	s.cpu.FlushIrq()
	s.cpu.IRQ = 12
	test.ExpectEquality(t, s.cpu.FlushIrq(), 44)
	test.ExpectEquality(t, s.cpu.Mask(), uint32(7))
}

func TestStop(t *testing.T) {
	s := newSystem(t, cpu.OPSTOP, 0x2000, cpu.OPNOP)

	s.run(100)
	test.ExpectEquality(t, s.cpu.Stopped(), true)
	test.ExpectEquality(t, s.cpu.Cycles, 0)

	// nothing happens while stopped
	test.ExpectEquality(t, s.run(100), 100)
	test.ExpectEquality(t, s.pc(), uint32(resetPC+4))

	s.cpu.IRQ = 3
	s.run(0)
	test.ExpectEquality(t, s.cpu.Stopped(), false)
	test.ExpectEquality(t, s.pc(), uint32(irqHandler+2))
}

func TestHalt(t *testing.T) {
	s := newSystem(t, 0x7001)
	s.cpu.StateFlags |= cpu.FlagHalted

	test.ExpectEquality(t, s.run(500), 500)
	test.ExpectEquality(t, s.cpu.D[0], uint32(0))

	s.cpu.StateFlags &^= cpu.FlagHalted
	s.run(0)
	test.ExpectEquality(t, s.cpu.D[0], uint32(1))
}

func TestTAS(t *testing.T) {
	for _, real := range []bool{false, true} {
		s := newSystem(t, 0x4AD0, 0x4AC0) // tas (a0); tas d0
		s.cpu.RealTAS = real
		s.cpu.A[0] = 0xFF0020
		s.ram[0x20] = 0x01

		s.run(0)
		want := byte(0x01)
		if real {
			want = 0x81
		}
		test.ExpectEquality(t, s.ram[0x20], want, "real", real)

		s.run(0)
		test.ExpectEquality(t, s.cpu.D[0], uint32(0x80), "real", real)
		test.ExpectEquality(t, s.cpu.CCR&cpu.SRZ != 0, true)
	}
}

func TestResetInstruction(t *testing.T) {
	s := newSystem(t, cpu.OPRESET, 0x46FC, 0x0000, cpu.OPRESET) // reset; move #0,sr; reset
	var resets int
	s.cpu.ResetCallback = func() { resets++ }

	s.run(0)
	test.ExpectEquality(t, resets, 1)

	// in user mode RESET is a privilege violation
	s.run(0)
	test.ExpectEquality(t, s.cpu.Supervisor(), false)
	s.run(0)
	test.ExpectEquality(t, resets, 1)
	test.ExpectEquality(t, s.pc(), uint32(prvHandler))
	test.ExpectEquality(t, s.cpu.Supervisor(), true)
}

func TestRTE(t *testing.T) {
	s := newSystem(t, cpu.OPNOP, cpu.OPNOP)
	copy(s.rom[irqHandler:], cpu.WordsToBytes([]uint16{cpu.OPRTE}))
	s.cpu.SetSR(0x2000)
	s.cpu.IRQ = 5
	s.cpu.FlushIrq()
	s.cpu.IRQ = 0

	s.run(0)
	test.ExpectEquality(t, s.pc(), uint32(resetPC))
	test.ExpectEquality(t, s.cpu.GetSR(), uint16(0x2000))
	test.ExpectEquality(t, s.cpu.A[7], uint32(stackTop))
}
