package cpu

import "fmt"

// operand is a resolved effective address. Extension words have been
// fetched and any register side effects applied.
type operand struct {
	mode uint16
	reg  uint16
	addr uint32
	imm  uint32
}

// program reports whether the operand lives in program space.
func (op operand) program() bool {
	return op.mode == ModeOther && (op.reg == RegPCDisp || op.reg == RegPCIndex)
}

// increment returns the post-increment/pre-decrement step for An.
func increment(reg uint16, size Size) uint32 {
	// Byte operations on A7 keep the stack word aligned.
	if size == SizeByte && reg == 7 {
		return 2
	}
	return uint32(size.Bytes())
}

// index computes the index part of a brief extension word.
func (c *CPU) index(ext uint16) uint32 {
	reg := (ext >> 12) & 7
	var x uint32
	if ext&0x8000 != 0 {
		x = c.A[reg]
	} else {
		x = c.D[reg]
	}
	if ext&0x0800 == 0 {
		x = uint32(signExtend16(uint16(x)))
	}
	return x + uint32(int32(int8(ext)))
}

// resolve computes the effective address of an operand.
func (c *CPU) resolve(mode, reg uint16, size Size) (operand, error) {
	op := operand{mode: mode, reg: reg}
	switch mode {
	case ModeData, ModeAddr:
	case ModeAddrInd:
		op.addr = c.A[reg]
	case ModeAddrPostInc:
		op.addr = c.A[reg]
		c.A[reg] += increment(reg, size)
	case ModeAddrPreDec:
		c.A[reg] -= increment(reg, size)
		op.addr = c.A[reg]
	case ModeAddrDisp:
		op.addr = uint32(int32(c.A[reg]) + signExtend16(c.fetch16()))
	case ModeAddrIndex:
		ext := c.fetch16()
		op.addr = c.A[reg] + c.index(ext)
	case ModeOther:
		switch reg {
		case RegAbsShort:
			op.addr = uint32(signExtend16(c.fetch16()))
		case RegAbsLong:
			op.addr = c.fetch32()
		case RegPCDisp:
			base := c.logicalPC()
			op.addr = uint32(int32(base) + signExtend16(c.fetch16()))
		case RegPCIndex:
			base := c.logicalPC()
			ext := c.fetch16()
			op.addr = base + c.index(ext)
		case RegImmediate:
			switch size {
			case SizeByte:
				// Byte immediates are stored as a word, high byte is ignored
				op.imm = uint32(c.fetch16() & 0xFF)
			case SizeWord:
				op.imm = uint32(c.fetch16())
			case SizeLong:
				op.imm = c.fetch32()
			default:
				return op, fmt.Errorf("invalid size for immediate operand")
			}
		default:
			return op, fmt.Errorf("invalid addressing sub-mode %d for mode %d", reg, mode)
		}
	default:
		return op, fmt.Errorf("invalid addressing mode %d", mode)
	}
	return op, nil
}

// load reads a resolved operand.
func (c *CPU) load(op operand, size Size) uint32 {
	switch {
	case op.mode == ModeData:
		return c.D[op.reg] & size.Mask()
	case op.mode == ModeAddr:
		return c.A[op.reg] & size.Mask()
	case op.mode == ModeOther && op.reg == RegImmediate:
		return op.imm
	case op.program():
		return c.fetchSized(op.addr, size)
	}
	return c.readSized(op.addr, size)
}

// store writes a resolved operand.
func (c *CPU) store(op operand, size Size, value uint32) error {
	switch op.mode {
	case ModeData:
		switch size {
		case SizeByte:
			c.D[op.reg] = (c.D[op.reg] & 0xFFFFFF00) | (value & 0xFF)
		case SizeWord:
			c.D[op.reg] = (c.D[op.reg] & 0xFFFF0000) | (value & 0xFFFF)
		case SizeLong:
			c.D[op.reg] = value
		default:
			return fmt.Errorf("invalid size for store to D%d", op.reg)
		}
		return nil
	case ModeAddr:
		switch size {
		case SizeWord:
			c.A[op.reg] = uint32(signExtend16(uint16(value)))
		case SizeLong:
			c.A[op.reg] = value
		default:
			return fmt.Errorf("invalid size %s for store to A%d", size, op.reg)
		}
		return nil
	case ModeOther:
		if op.reg == RegImmediate || op.program() {
			return fmt.Errorf("sub-mode %d is not a writable destination", op.reg)
		}
	}
	c.writeSized(op.addr, size, value)
	return nil
}

// GetOperand fetches a value using the specified addressing mode.
// This is the core of resolving the "source" part of an instruction.
func (c *CPU) GetOperand(mode, reg uint16, size Size) (uint32, error) {
	op, err := c.resolve(mode, reg, size)
	if err != nil {
		return 0, err
	}
	return c.load(op, size), nil
}

// PutOperand writes a value using the specified addressing mode.
// This is the core of resolving the "destination" part of an instruction.
func (c *CPU) PutOperand(mode, reg uint16, size Size, value uint32) error {
	op, err := c.resolve(mode, reg, size)
	if err != nil {
		return err
	}
	return c.store(op, size, value)
}

// signExtend16 sign-extends a 16-bit value to 32 bits.
func signExtend16(v uint16) int32 {
	return int32(int16(v))
}
