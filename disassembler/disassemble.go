// Package disassembler turns the instructions the cpu package executes back
// into assembly text, for tracing and listings.
package disassembler

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/Urethramancer/musa68k/cpu"
)

// Reader gives access to program memory. memory.Map and bridge.Instance
// both satisfy it.
type Reader interface {
	Read16(addr uint32) uint16
}

// Instruction represents a single decoded instruction at a specific address.
type Instruction struct {
	Address  uint32
	Op       uint16
	Mnemonic string
	Operands string
	// Size in bytes, including extension words.
	Size uint32
}

func (i Instruction) String() string {
	if i.Operands == "" {
		return fmt.Sprintf("%06X  %s", i.Address, i.Mnemonic)
	}
	return fmt.Sprintf("%06X  %-8s %s", i.Address, i.Mnemonic, i.Operands)
}

// longest extension of a supported instruction: move.l #imm,abs.l
const maxExtension = 8

// Decode disassembles the instruction at addr.
func Decode(r Reader, addr uint32) Instruction {
	op := r.Read16(addr)
	code := make([]byte, maxExtension)
	for i := 0; i < maxExtension; i += 2 {
		binary.BigEndian.PutUint16(code[i:], r.Read16(addr+2+uint32(i)))
	}
	mn, ops, used := decode(op, addr, code)
	return Instruction{
		Address:  addr,
		Op:       op,
		Mnemonic: mn,
		Operands: ops,
		Size:     uint32(2 + used),
	}
}

// Listing disassembles count instructions from addr onwards, one per line.
func Listing(r Reader, addr uint32, count int) string {
	var out strings.Builder
	for i := 0; i < count; i++ {
		inst := Decode(r, addr)
		out.WriteString(inst.String())
		out.WriteByte('\n')
		addr += inst.Size
	}
	return out.String()
}

// decode returns mnemonic, operand string, and number of extension bytes
// consumed. Anything the cpu package does not execute is shown as data.
func decode(op uint16, addr uint32, code []byte) (string, string, int) {
	switch op {
	case cpu.OPNOP:
		return "nop", "", 0
	case cpu.OPRTS:
		return "rts", "", 0
	case cpu.OPRTE:
		return "rte", "", 0
	case cpu.OPRESET:
		return "reset", "", 0
	case cpu.OPILLEGAL:
		return "illegal", "", 0
	case cpu.OPSTOP:
		imm, used := readImmediateBySize(code, 0, 1)
		return "stop", imm, used
	}

	switch op >> 12 {
	case 0x1, 0x2, 0x3:
		return decodeMove(op, code)
	case 0x4:
		return decodeMisc(op, code)
	case 0x5:
		return decodeQuick(op, code)
	case 0x6:
		return decodeBranch(op, addr, code)
	case 0x7:
		if op&0x0100 == 0 {
			return "moveq", fmt.Sprintf("#%d,d%d", int8(op), (op>>9)&7), 0
		}
	case 0xD:
		return decodeAdd(op, code)
	}
	return dataWord(op)
}

func dataWord(op uint16) (string, string, int) {
	return "dc.w", fmt.Sprintf("$%04x", op), 0
}

// decodeMisc decodes the group 4 instructions the cpu executes.
func decodeMisc(op uint16, code []byte) (string, string, int) {
	ea := op & 0x3F
	switch {
	case op&0xFFF0 == cpu.OPTRAP:
		return "trap", fmt.Sprintf("#%d", op&0xF), 0
	case op&0xFFC0 == cpu.OPJMP:
		text, used := DecodeEA(ea, 0, code, 2)
		return "jmp", text, used
	case op&0xFFC0 == cpu.OPJSR:
		text, used := DecodeEA(ea, 0, code, 2)
		return "jsr", text, used
	case op&0xFFC0 == cpu.OPTAS:
		text, used := DecodeEA(ea, 0, code, 0)
		return "tas", text, used
	case op&0xFFC0 == cpu.OPMOVEToSR:
		text, used := DecodeEA(ea, 0, code, 1)
		return "move.w", text + ",sr", used
	case op&0xF1C0 == cpu.OPLEA:
		text, used := DecodeEA(ea, 0, code, 2)
		return "lea", fmt.Sprintf("%s,a%d", text, (op>>9)&7), used
	}
	return dataWord(op)
}
