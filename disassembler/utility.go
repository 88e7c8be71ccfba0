package disassembler

import (
	"encoding/binary"
	"fmt"
)

// SizeSuffix returns the canonical size suffix (.b, .w, .l) for the usual
// two-bit size field.
func SizeSuffix(bits uint16) string {
	switch bits {
	case 0:
		return ".b"
	case 1:
		return ".w"
	case 2:
		return ".l"
	default:
		return ""
	}
}

// DecodeEA decodes a mode/register effective address field, reading any
// extension words from code at pc. size is a two-bit size field and only
// matters for immediates.
func DecodeEA(ea uint16, pc int, code []byte, size uint16) (string, int) {
	mode := (ea >> 3) & 7
	reg := ea & 7

	switch mode {
	case 0:
		return fmt.Sprintf("d%d", reg), 0
	case 1:
		return fmt.Sprintf("a%d", reg), 0
	case 2:
		return fmt.Sprintf("(a%d)", reg), 0
	case 3:
		return fmt.Sprintf("(a%d)+", reg), 0
	case 4:
		return fmt.Sprintf("-(a%d)", reg), 0
	case 5:
		if pc+2 > len(code) {
			return fmt.Sprintf("(?,a%d)", reg), 0
		}
		disp := int16(binary.BigEndian.Uint16(code[pc:]))
		return fmt.Sprintf("(%s,a%d)", formatDisp16(disp), reg), 2
	case 6:
		if pc+2 > len(code) {
			return fmt.Sprintf("(?,a%d,x?)", reg), 0
		}
		return fmt.Sprintf("(%s)", index(fmt.Sprintf("a%d", reg), binary.BigEndian.Uint16(code[pc:]))), 2
	}

	switch reg {
	case 0:
		if pc+2 > len(code) {
			return "(?.w)", 0
		}
		return fmt.Sprintf("$%x.w", binary.BigEndian.Uint16(code[pc:])), 2
	case 1:
		if pc+4 > len(code) {
			return "(?.l)", 0
		}
		return fmt.Sprintf("$%x.l", binary.BigEndian.Uint32(code[pc:])), 4
	case 2:
		if pc+2 > len(code) {
			return "(?,pc)", 0
		}
		disp := int16(binary.BigEndian.Uint16(code[pc:]))
		return fmt.Sprintf("(%s,pc)", formatDisp16(disp)), 2
	case 3:
		if pc+2 > len(code) {
			return "(?,pc,xn)", 0
		}
		return fmt.Sprintf("(%s)", index("pc", binary.BigEndian.Uint16(code[pc:]))), 2
	case 4:
		return readImmediateBySize(code, pc, size)
	}
	return fmt.Sprintf("(ea mode=%d reg=%d)", mode, reg), 0
}

// index formats the body of a brief extension word operand.
func index(base string, ext uint16) string {
	sizeChar := "w"
	if ext&0x0800 != 0 {
		sizeChar = "l"
	}
	regType := "d"
	if ext&0x8000 != 0 {
		regType = "a"
	}
	return fmt.Sprintf("%s,%s,%s%d.%s", formatDisp8(int8(ext)), base, regType, (ext>>12)&7, sizeChar)
}

// readImmediateBySize reads immediate data based on the size field.
func readImmediateBySize(code []byte, pc int, size uint16) (string, int) {
	n := len(code)
	switch size {
	case 0:
		if pc+2 > n {
			return "#<trunc>", 0
		}
		return fmt.Sprintf("#%d", int8(code[pc+1])), 2
	case 1:
		if pc+2 > n {
			return "#<trunc>", 0
		}
		w := int16(binary.BigEndian.Uint16(code[pc:]))
		if w >= 0 && w <= 255 {
			return fmt.Sprintf("#%d", w), 2
		}
		return fmt.Sprintf("#$%x", uint16(w)), 2
	case 2:
		if pc+4 > n {
			return "#<trunc>", 0
		}
		return fmt.Sprintf("#$%x", binary.BigEndian.Uint32(code[pc:])), 4
	}
	return "#?", 0
}

func formatDisp8(v int8) string {
	if v >= -9 && v <= 9 {
		return fmt.Sprintf("%d", v)
	}
	return fmt.Sprintf("$%x", uint8(v))
}

func formatDisp16(v int16) string {
	if v >= -9 && v <= 9 {
		return fmt.Sprintf("%d", v)
	}
	return fmt.Sprintf("$%x", uint16(v))
}
