// Package script drives a dual CPU system from Lua. Each instance is exposed
// as a global table named after it ("m68k", "s68k") holding the register,
// memory, execution and interrupt calls of the bridge. Register ids are
// available as REG_D0 to REG_IR, and the acknowledge results as AUTOVECTOR
// and SPURIOUS.
//
//	m68k.set_reg(REG_PC, 0x200)
//	m68k.set_irq(4)
//	print(m68k.run(1000), m68k.get_reg("SR"))
package script

import (
	"fmt"
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/Urethramancer/musa68k/bridge"
	"github.com/Urethramancer/musa68k/cpu"
	"github.com/Urethramancer/musa68k/disassembler"
	"github.com/Urethramancer/musa68k/internal/logger"
)

// Engine is a Lua state bound to a dual system.
type Engine struct {
	L    *lua.LState
	dual *bridge.Dual
	out  io.Writer
}

// New creates an engine driving d. Output of print goes to out.
func New(d *bridge.Dual, out io.Writer) *Engine {
	e := &Engine{
		L:    lua.NewState(),
		dual: d,
		out:  out,
	}

	for _, r := range bridge.Registers() {
		e.L.SetGlobal("REG_"+r.String(), lua.LNumber(r))
	}
	e.L.SetGlobal("AUTOVECTOR", lua.LNumber(cpu.AutoVector))
	e.L.SetGlobal("SPURIOUS", lua.LNumber(cpu.Spurious))
	e.L.SetGlobal("print", e.L.NewFunction(e.print))
	e.L.SetGlobal("log", e.L.NewFunction(e.log))

	for _, inst := range []*bridge.Instance{d.Master, d.Slave} {
		e.L.SetGlobal(inst.Name(), e.instanceTable(inst))
	}
	return e
}

// SetNumber sets a global number for scripts to read.
func (e *Engine) SetNumber(name string, v int) {
	e.L.SetGlobal(name, lua.LNumber(v))
}

// DoString runs a chunk of Lua source.
func (e *Engine) DoString(src string) error {
	if err := e.L.DoString(src); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// DoFile runs the Lua file at path.
func (e *Engine) DoFile(path string) error {
	if err := e.L.DoFile(path); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	return nil
}

// Close releases the Lua state. Callbacks installed by the script are
// removed from both instances first.
func (e *Engine) Close() {
	for _, inst := range []*bridge.Instance{e.dual.Master, e.dual.Slave} {
		inst.SetIntAckCallback(nil)
		inst.SetResetInstrCallback(nil)
	}
	e.L.Close()
}

func (e *Engine) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	fmt.Fprintln(e.out, strings.Join(parts, "\t"))
	return 0
}

func (e *Engine) log(L *lua.LState) int {
	logger.Log(logger.Allow, "script", L.CheckString(1))
	return 0
}

// checkRegister accepts a register id or name.
func checkRegister(L *lua.LState, n int) bridge.Register {
	switch v := L.Get(n).(type) {
	case lua.LNumber:
		return bridge.Register(v)
	case lua.LString:
		r, ok := bridge.ParseRegister(strings.ToUpper(string(v)))
		if !ok {
			L.ArgError(n, fmt.Sprintf("unknown register %q", string(v)))
		}
		return r
	}
	L.TypeError(n, lua.LTNumber)
	return 0
}

func checkUint32(L *lua.LState, n int) uint32 {
	return uint32(int64(L.CheckNumber(n)))
}

// instanceTable builds the table of calls bound to inst.
func (e *Engine) instanceTable(inst *bridge.Instance) *lua.LTable {
	tbl := e.L.NewTable()
	e.L.SetFuncs(tbl, map[string]lua.LGFunction{
		"init": func(L *lua.LState) int {
			inst.Init()
			return 0
		},
		"pulse_reset": func(L *lua.LState) int {
			inst.PulseReset()
			return 0
		},
		"run": func(L *lua.LState) int {
			L.Push(lua.LNumber(inst.Run(L.OptInt(1, 0))))
			return 1
		},
		"cycles": func(L *lua.LState) int {
			L.Push(lua.LNumber(inst.Cycles()))
			return 1
		},
		"set_cycles": func(L *lua.LState) int {
			inst.SetCycles(L.CheckInt(1))
			return 0
		},
		"get_reg": func(L *lua.LState) int {
			L.Push(lua.LNumber(inst.Register(checkRegister(L, 1))))
			return 1
		},
		"set_reg": func(L *lua.LState) int {
			inst.SetRegister(checkRegister(L, 1), checkUint32(L, 2))
			return 0
		},
		"read8": func(L *lua.LState) int {
			L.Push(lua.LNumber(inst.Read8(checkUint32(L, 1))))
			return 1
		},
		"read16": func(L *lua.LState) int {
			L.Push(lua.LNumber(inst.Read16(checkUint32(L, 1))))
			return 1
		},
		"read32": func(L *lua.LState) int {
			L.Push(lua.LNumber(inst.Read32(checkUint32(L, 1))))
			return 1
		},
		"write8": func(L *lua.LState) int {
			inst.Write8(checkUint32(L, 1), uint8(checkUint32(L, 2)))
			return 0
		},
		"write16": func(L *lua.LState) int {
			inst.Write16(checkUint32(L, 1), uint16(checkUint32(L, 2)))
			return 0
		},
		"write32": func(L *lua.LState) int {
			inst.Write32(checkUint32(L, 1), checkUint32(L, 2))
			return 0
		},
		"set_irq": func(L *lua.LState) int {
			inst.SetIRQ(checkUint32(L, 1))
			return 0
		},
		"set_irq_delay": func(L *lua.LState) int {
			inst.SetIRQDelay(checkUint32(L, 1))
			return 0
		},
		"update_irq": func(L *lua.LState) int {
			inst.UpdateIRQ(checkUint32(L, 1))
			return 0
		},
		"irq_level": func(L *lua.LState) int {
			L.Push(lua.LNumber(inst.Interrupts().Level()))
			return 1
		},
		"pulse_halt": func(L *lua.LState) int {
			inst.PulseHalt()
			return 0
		},
		"clear_halt": func(L *lua.LState) int {
			inst.ClearHalt()
			return 0
		},
		"halted": func(L *lua.LState) int {
			L.Push(lua.LBool(inst.Halted()))
			return 1
		},
		"disasm": func(L *lua.LState) int {
			addr := checkUint32(L, 1)
			L.Push(lua.LString(disassembler.Listing(inst, addr, L.OptInt(2, 1))))
			return 1
		},
		"set_real_tas": func(L *lua.LState) int {
			inst.SetRealTAS(L.ToBool(1))
			return 0
		},
		"set_int_ack": func(L *lua.LState) int {
			if L.Get(1) == lua.LNil {
				inst.SetIntAckCallback(nil)
				return 0
			}
			fn := L.CheckFunction(1)
			inst.SetIntAckCallback(func(level int) int {
				return e.acknowledge(inst, fn, level)
			})
			return 0
		},
		"set_reset_instr": func(L *lua.LState) int {
			if L.Get(1) == lua.LNil {
				inst.SetResetInstrCallback(nil)
				return 0
			}
			fn := L.CheckFunction(1)
			inst.SetResetInstrCallback(func() {
				if err := e.L.CallByParam(lua.P{Fn: fn, Protect: true}); err != nil {
					logger.Logf(logger.Allow, "script", "%s reset callback: %v", inst.Name(), err)
				}
			})
			return 0
		},
	})
	tbl.RawSetString("name", lua.LString(inst.Name()))
	return tbl
}

// acknowledge calls a Lua acknowledge function. A function returning nothing
// or failing selects the autovector.
func (e *Engine) acknowledge(inst *bridge.Instance, fn *lua.LFunction, level int) int {
	err := e.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lua.LNumber(level))
	if err != nil {
		logger.Logf(logger.Allow, "script", "%s acknowledge: %v", inst.Name(), err)
		return cpu.AutoVector
	}
	ret := e.L.Get(-1)
	e.L.Pop(1)
	if n, ok := ret.(lua.LNumber); ok {
		return int(n)
	}
	return cpu.AutoVector
}
