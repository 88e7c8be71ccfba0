package cpu

import (
	"errors"
	"fmt"
)

// ErrUnimplemented is returned by Decode for opcodes the core does not execute.
var ErrUnimplemented = errors.New("unknown or unimplemented instruction")

// DecodedInstruction holds the parsed details of an M68k instruction.
type DecodedInstruction struct {
	Handler func(*CPU, *DecodedInstruction) error
	Opcode  uint16
	Size    Size
	SrcMode uint16
	SrcReg  uint16
	DstMode uint16
	DstReg  uint16
	OpMode  uint16
}

// sizeField decodes the common two-bit size field at bits 7-6.
func sizeField(opcode uint16) Size {
	switch (opcode >> 6) & 3 {
	case 0:
		return SizeByte
	case 1:
		return SizeWord
	case 2:
		return SizeLong
	}
	return SizeInvalid
}

// Decode takes a 16-bit opcode and returns a structured DecodedInstruction.
func (c *CPU) Decode(opcode uint16) (*DecodedInstruction, error) {
	inst := &DecodedInstruction{Opcode: opcode}

	// Switch on the top 4 bits of the opcode for efficient decoding.
	switch opcode >> 12 {

	// MOVE instructions are patterns 0001 (byte), 0011 (word), 0010 (long)
	case 1, 2, 3:
		switch (opcode >> 12) & 3 {
		case 1:
			inst.Size = SizeByte
		case 3:
			inst.Size = SizeWord
		case 2:
			inst.Size = SizeLong
		}

		inst.DstMode = (opcode >> 6) & 7
		inst.DstReg = (opcode >> 9) & 7
		inst.SrcMode = (opcode >> 3) & 7
		inst.SrcReg = opcode & 7

		// MOVEA is a special case of MOVE where the destination is an address register.
		if inst.DstMode == ModeAddr {
			inst.Handler = (*CPU).opMOVEA
		} else {
			inst.Handler = (*CPU).opMOVE
		}
		return inst, nil

	case 4:
		return c.decodeMisc(inst)

	// ADDQ/SUBQ instruction pattern is 0101
	case 5:
		// Scc and DBcc have the pattern 0101 <cond> 11 <ea>, which we exclude.
		if opcode&0x00C0 == 0x00C0 {
			break
		}

		data := (opcode >> 9) & 7
		if data == 0 {
			data = 8 // A value of 0 in the data field means 8
		}
		inst.SrcReg = data // Pass immediate value via SrcReg
		inst.Size = sizeField(opcode)
		inst.DstMode = (opcode >> 3) & 7
		inst.DstReg = opcode & 7

		if (opcode>>8)&1 == 0 {
			inst.Handler = (*CPU).opADDQ
		} else {
			inst.Handler = (*CPU).opSUBQ
		}
		return inst, nil

	// Bcc, BRA and BSR share 0110 <cond> <disp8>
	case 6:
		inst.OpMode = (opcode >> 8) & 0xF
		inst.SrcReg = opcode & 0xFF
		switch inst.OpMode {
		case 0:
			inst.Handler = (*CPU).opBRA
		case 1:
			inst.Handler = (*CPU).opBSR
		default:
			inst.Handler = (*CPU).opBcc
		}
		return inst, nil

	// MOVEQ instruction pattern is 0111
	case 7:
		if opcode&0x0100 != 0 {
			break
		}
		inst.Handler = (*CPU).opMOVEQ
		inst.Size = SizeLong // MOVEQ is always long
		inst.DstReg = (opcode >> 9) & 7
		// The immediate value is stored in the low 8 bits. We pass it via SrcReg.
		inst.SrcReg = opcode & 0xFF
		return inst, nil

	// ADD/ADDA instruction pattern is 1101
	case 13:
		inst.Handler = (*CPU).opADD
		inst.OpMode = opcode & 0x01C0 // Contains direction and size bits
		inst.DstReg = (opcode >> 9) & 7
		inst.SrcMode = (opcode >> 3) & 7
		inst.SrcReg = opcode & 7

		inst.Size = sizeField(opcode)
		if inst.Size == SizeInvalid {
			// ADDA: bit 8 selects long.
			inst.Handler = (*CPU).opADDA
			inst.Size = SizeWord
			if opcode&0x0100 != 0 {
				inst.Size = SizeLong
			}
		}
		return inst, nil
	}

	return nil, fmt.Errorf("%w: %04X", ErrUnimplemented, opcode)
}

// decodeMisc handles the 0100 group.
func (c *CPU) decodeMisc(inst *DecodedInstruction) (*DecodedInstruction, error) {
	opcode := inst.Opcode
	inst.DstMode = (opcode >> 3) & 7
	inst.DstReg = opcode & 7

	switch opcode {
	case OPNOP:
		inst.Handler = (*CPU).opNOP
		return inst, nil
	case OPRTS:
		inst.Handler = (*CPU).opRTS
		return inst, nil
	case OPRTE:
		inst.Handler = (*CPU).opRTE
		return inst, nil
	case OPRESET:
		inst.Handler = (*CPU).opRESET
		return inst, nil
	case OPSTOP:
		inst.Handler = (*CPU).opSTOP
		return inst, nil
	case OPILLEGAL:
		inst.Handler = (*CPU).opILLEGAL
		return inst, nil
	}

	switch {
	case opcode&0xFFF0 == OPTRAP:
		// The trap vector is stored in the lower 4 bits of the opcode.
		inst.DstReg = opcode & 0xF
		inst.Handler = (*CPU).opTRAP
	case opcode&0xFFC0 == OPJMP:
		inst.Handler = (*CPU).opJMP
	case opcode&0xFFC0 == OPJSR:
		inst.Handler = (*CPU).opJSR
	case opcode&0xFFC0 == OPTAS:
		inst.Size = SizeByte
		inst.Handler = (*CPU).opTAS
	case opcode&0xFFC0 == OPMOVEToSR:
		inst.SrcMode, inst.SrcReg = inst.DstMode, inst.DstReg
		inst.Size = SizeWord
		inst.Handler = (*CPU).opMOVEToSR
	case opcode&0xF1C0 == OPLEA:
		inst.SrcMode, inst.SrcReg = inst.DstMode, inst.DstReg
		inst.DstMode = ModeAddr
		inst.DstReg = (opcode >> 9) & 7
		inst.Size = SizeLong
		inst.Handler = (*CPU).opLEA
	default:
		return nil, fmt.Errorf("%w: %04X", ErrUnimplemented, opcode)
	}
	return inst, nil
}
