package disassembler

import "fmt"

// moveSize maps the MOVE size field to the usual two-bit size field.
var moveSize = [4]uint16{3, 0, 2, 1}

// decodeMove decodes MOVE and MOVEA. The destination field has register and
// mode swapped.
func decodeMove(op uint16, code []byte) (string, string, int) {
	size := moveSize[(op>>12)&3]
	src, used := DecodeEA(op&0x3F, 0, code, size)

	dstReg := (op >> 9) & 7
	dstMode := (op >> 6) & 7
	if dstMode == 1 {
		if size == 0 {
			return dataWord(op)
		}
		return "movea" + SizeSuffix(size), fmt.Sprintf("%s,a%d", src, dstReg), used
	}

	dst, more := DecodeEA(dstMode<<3|dstReg, used, code, size)
	return "move" + SizeSuffix(size), src + "," + dst, used + more
}
