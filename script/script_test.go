package script_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Urethramancer/musa68k/bridge"
	"github.com/Urethramancer/musa68k/cpu"
	"github.com/Urethramancer/musa68k/internal/test"
	"github.com/Urethramancer/musa68k/memory"
	"github.com/Urethramancer/musa68k/script"
)

// newDual builds a dual system whose master runs program from 0x100 with an
// interrupt handler of NOPs at 0x200. Both instances have RAM at page 0xFF.
func newDual(program ...uint16) *bridge.Dual {
	rom := make([]byte, memory.PageSize)
	binary.BigEndian.PutUint32(rom[0:], 0xFF8000)
	binary.BigEndian.PutUint32(rom[4:], 0x100)
	for level := 1; level <= 7; level++ {
		binary.BigEndian.PutUint32(rom[(cpu.VectorAutoBase+level)*4:], 0x200)
	}
	binary.BigEndian.PutUint32(rom[0x30*4:], 0x280)
	copy(rom[0x100:], cpu.WordsToBytes(program))
	copy(rom[0x200:], cpu.WordsToBytes([]uint16{cpu.OPNOP, cpu.OPNOP}))

	mm := memory.New()
	mm.MapRegion(0x00, 0x00, rom)
	mm.MapRegion(0xFF, 0xFF, make([]byte, memory.PageSize))
	sm := memory.New()
	sm.MapRegion(0xFF, 0xFF, make([]byte, memory.PageSize))

	return bridge.NewDual(
		bridge.Config{Memory: mm, ResetOnInit: true},
		bridge.Config{Memory: sm},
	)
}

func run(t *testing.T, d *bridge.Dual, src string) string {
	t.Helper()
	var out strings.Builder
	e := script.New(d, &out)
	defer e.Close()
	test.ExpectSuccess(t, e.DoString(src))
	return out.String()
}

func TestRegisters(t *testing.T) {
	d := newDual(cpu.OPNOP)
	out := run(t, d, `
		m68k.set_reg(REG_D3, 0xDEADBEEF)
		s68k.set_reg("a7", 0x00FF0000)
		print(m68k.get_reg(3), s68k.get_reg(REG_SP), m68k.get_reg("PC"))
	`)
	test.ExpectEquality(t, out, "3735928559\t16711680\t256\n")
	test.ExpectEquality(t, d.Master.Register(bridge.RegD3), uint32(0xDEADBEEF))
	test.ExpectEquality(t, d.Slave.Register(bridge.RegA7), uint32(0x00FF0000))
}

func TestRunAndMemory(t *testing.T) {
	d := newDual(0x7001, 0x7202) // moveq #1,d0; moveq #2,d1
	out := run(t, d, `
		print(m68k.run(0), m68k.run(0), m68k.cycles())
		s68k.write16(0xFF0010, 0x1234)
		s68k.write8(0xFF0013, 0x78)
		print(s68k.read32(0xFF0010), m68k.read16(0xFF0010))
	`)
	test.ExpectEquality(t, out, "4\t4\t8\n305397880\t0\n")
	test.ExpectEquality(t, d.Master.Register(bridge.RegD1), uint32(2))
}

func TestInterrupts(t *testing.T) {
	d := newDual(cpu.OPNOP, cpu.OPNOP)
	out := run(t, d, `
		m68k.set_reg(REG_SR, 0x2000)
		local seen = 0
		m68k.set_int_ack(function(level)
			seen = level
			m68k.set_irq(0)
			return 0x30
		end)
		m68k.set_irq_delay(5)
		print(seen, m68k.get_reg(REG_PC), m68k.irq_level())
		m68k.set_int_ack(nil)
		m68k.update_irq(1)
		m68k.update_irq(2)
		print(m68k.irq_level())
	`)
	test.ExpectEquality(t, out, "5\t640\t0\n3\n")
}

func TestAckFallsBackToAutovector(t *testing.T) {
	d := newDual(cpu.OPNOP)
	run(t, d, `
		m68k.set_reg(REG_SR, 0x2000)
		m68k.set_int_ack(function(level) m68k.set_irq(0) end)
		m68k.set_irq(2)
	`)
	test.ExpectEquality(t, d.Master.Register(bridge.RegPC), uint32(0x200))
}

func TestHaltAndCallbacks(t *testing.T) {
	d := newDual(cpu.OPRESET, 0x4AD0) // reset; tas (a0)
	out := run(t, d, `
		local resets = 0
		m68k.set_reset_instr(function() resets = resets + 1 end)
		m68k.pulse_halt()
		print(m68k.halted(), m68k.run(50))
		m68k.clear_halt()
		m68k.run(0)
		m68k.set_real_tas(true)
		m68k.set_reg(REG_A0, 0xFF0000)
		m68k.run(0)
		print(resets, m68k.read8(0xFF0000))
	`)
	test.ExpectEquality(t, out, "true\t50\n1\t128\n")

	// Close removes script callbacks
	test.ExpectEquality(t, d.Master.Core().ResetCallback == nil, true)
}

func TestDisasm(t *testing.T) {
	d := newDual(0x7001, cpu.OPNOP)
	out := run(t, d, `print(m68k.disasm(m68k.get_reg(REG_PC), 2))`)
	test.ExpectEquality(t, out, "000100  moveq    #1,d0\n000102  nop\n\n")
}

func TestErrors(t *testing.T) {
	d := newDual(cpu.OPNOP)
	e := script.New(d, os.Stdout)
	defer e.Close()

	test.ExpectFailure(t, e.DoString(`m68k.get_reg("Q9")`))
	test.ExpectFailure(t, e.DoString(`m68k.get_reg({})`))
	test.ExpectFailure(t, e.DoString(`this is not lua`))
	test.ExpectFailure(t, e.DoFile(filepath.Join(t.TempDir(), "missing.lua")))
}

func TestDoFile(t *testing.T) {
	d := newDual(cpu.OPNOP)
	path := filepath.Join(t.TempDir(), "frame.lua")
	err := os.WriteFile(path, []byte(`m68k.set_reg(REG_D7, 7) log("frame done")`), 0o644)
	test.DemandEquality(t, err, nil)

	var out strings.Builder
	e := script.New(d, &out)
	defer e.Close()
	test.ExpectSuccess(t, e.DoFile(path))
	test.ExpectEquality(t, d.Master.Register(bridge.RegD7), uint32(7))
}
