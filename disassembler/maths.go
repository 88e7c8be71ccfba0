package disassembler

import "fmt"

// decodeAdd decodes ADD and ADDA.
func decodeAdd(op uint16, code []byte) (string, string, int) {
	reg := (op >> 9) & 7
	ea := op & 0x3F

	// ADDA: opmode 011 is word, 111 is long
	if op&0x00C0 == 0x00C0 {
		size := uint16(1)
		if op&0x0100 != 0 {
			size = 2
		}
		eaText, used := DecodeEA(ea, 0, code, size)
		return "adda" + SizeSuffix(size), fmt.Sprintf("%s,a%d", eaText, reg), used
	}

	size := (op >> 6) & 3
	eaText, used := DecodeEA(ea, 0, code, size)
	if op&0x0100 != 0 {
		// Dn -> EA
		return "add" + SizeSuffix(size), fmt.Sprintf("d%d,%s", reg, eaText), used
	}
	return "add" + SizeSuffix(size), fmt.Sprintf("%s,d%d", eaText, reg), used
}

// decodeQuick decodes ADDQ and SUBQ.
func decodeQuick(op uint16, code []byte) (string, string, int) {
	size := (op >> 6) & 3
	if size == 3 {
		return dataWord(op)
	}
	data := (op >> 9) & 7
	if data == 0 {
		data = 8
	}
	mn := "addq"
	if op&0x0100 != 0 {
		mn = "subq"
	}
	eaText, used := DecodeEA(op&0x3F, 0, code, size)
	return mn + SizeSuffix(size), fmt.Sprintf("#%d,%s", data, eaText), used
}
