package cpu

// Size defines the data size for an instruction's operation.
type Size int

const (
	// SizeInvalid is the zero value, indicating no size was decoded.
	SizeInvalid Size = iota
	// SizeByte represents 8-bit data size.
	SizeByte
	// SizeWord represents 16-bit data size.
	SizeWord
	// SizeLong represents 32-bit data size.
	SizeLong
)

// Bytes returns the number of bytes an operand of this size occupies.
func (s Size) Bytes() int {
	switch s {
	case SizeByte:
		return 1
	case SizeWord:
		return 2
	case SizeLong:
		return 4
	}
	return 0
}

// Mask returns the bits an operand of this size covers.
func (s Size) Mask() uint32 {
	switch s {
	case SizeByte:
		return 0xFF
	case SizeWord:
		return 0xFFFF
	}
	return 0xFFFFFFFF
}

func (s Size) msb() uint32 {
	switch s {
	case SizeByte:
		return 0x80
	case SizeWord:
		return 0x8000
	}
	return 0x80000000
}

func (s Size) String() string {
	switch s {
	case SizeByte:
		return ".b"
	case SizeWord:
		return ".w"
	case SizeLong:
		return ".l"
	}
	return ""
}

// Opcodes the core executes.
const (
	OPMOVEQ    = 0x7000 // MOVEQ
	OPMOVEToSR = 0x46C0 // MOVE to SR (privileged)
	OPLEA      = 0x41C0 // LEA (Base, register is OR'd)
	OPADDQ     = 0x5000 // ADDQ
	OPSUBQ     = 0x5100 // SUBQ
	OPADD      = 0xD000 // ADD

	OPTRAP    = 0x4E40 // TRAP
	OPRTE     = 0x4E73 // RTE
	OPSTOP    = 0x4E72 // STOP
	OPRESET   = 0x4E70 // RESET
	OPNOP     = 0x4E71 // NOP
	OPILLEGAL = 0x4AFC // ILLEGAL
	OPRTS     = 0x4E75 // RTS
	OPTAS     = 0x4AC0 // TAS

	OPBRA = 0x6000 // Branch Always
	OPBSR = 0x6100 // Branch to Subroutine
	OPBNE = 0x6600 // Branch if Not Equal
	OPBEQ = 0x6700 // Branch if Equal

	OPJMP = 0x4EC0 // JMP
	OPJSR = 0x4E80 // JSR
)
