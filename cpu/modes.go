package cpu

// Addressing mode constants (3-bit mode field + 3-bit register field)
const (
	// 000: Data Register Direct: Dn
	ModeData uint16 = 0

	// 001: Address Register Direct: An
	ModeAddr uint16 = 1

	// 010: Address Register Indirect: (An)
	ModeAddrInd uint16 = 2

	// 011: Address Register Indirect with Postincrement: (An)+
	ModeAddrPostInc uint16 = 3

	// 100: Address Register Indirect with Predecrement: -(An)
	ModeAddrPreDec uint16 = 4

	// 101: Address Register Indirect with Displacement: (d16,An)
	ModeAddrDisp uint16 = 5

	// 110: Address Register Indirect with Index: (d8,An,Xn)
	ModeAddrIndex uint16 = 6

	// 111: Miscellaneous / other addressing modes
	ModeOther uint16 = 7
)

// Submodes for ModeOther (register field = 3 bits)
const (
	// 000: Absolute short address: (xxx).W
	RegAbsShort uint16 = 0

	// 001: Absolute long address: (xxx).L
	RegAbsLong uint16 = 1

	// 010: Program counter with displacement: (d16,PC)
	RegPCDisp uint16 = 2

	// 011: Program counter with index: (d8,PC,Xn)
	RegPCIndex uint16 = 3

	// 100: Immediate: #<data>
	RegImmediate uint16 = 4
)

// eaCycles returns the effective address calculation time of a mode.
func eaCycles(mode, reg uint16, size Size) int {
	long := 0
	if size == SizeLong {
		long = 4
	}
	switch mode {
	case ModeData, ModeAddr:
		return 0
	case ModeAddrInd, ModeAddrPostInc:
		return 4 + long
	case ModeAddrPreDec:
		return 6 + long
	case ModeAddrDisp:
		return 8 + long
	case ModeAddrIndex:
		return 10 + long
	}
	switch reg {
	case RegAbsShort, RegPCDisp:
		return 8 + long
	case RegAbsLong:
		return 12 + long
	case RegPCIndex:
		return 10 + long
	case RegImmediate:
		return 4 + long
	}
	return 0
}
