package disassembler

import (
	"encoding/binary"
	"fmt"
)

// decodeBranch decodes BRA, BSR and Bcc. The operand is the absolute target,
// computed from the address of the displacement.
func decodeBranch(op uint16, addr uint32, code []byte) (string, string, int) {
	cond := (op >> 8) & 0xF
	var name string
	switch cond {
	case 0x0:
		name = "bra"
	case 0x1:
		name = "bsr"
	default:
		name = "b" + condName(cond)
	}

	base := int64(addr) + 2
	disp8 := int8(op)
	if disp8 != 0 {
		return name + ".s", target(base + int64(disp8)), 0
	}

	// word displacement
	if len(code) < 2 {
		return name, "?", 0
	}
	w := int16(binary.BigEndian.Uint16(code))
	return name, target(base + int64(w)), 2
}

func target(addr int64) string {
	return fmt.Sprintf("$%06x", uint32(addr)&0xFFFFFF)
}

func condName(cond uint16) string {
	names := []string{"t", "f", "hi", "ls", "cc", "cs", "ne", "eq",
		"vc", "vs", "pl", "mi", "ge", "lt", "gt", "le"}
	if int(cond) < len(names) {
		return names[cond]
	}
	return "??"
}
