package cpu

import "fmt"

// opMOVEQ handles the MOVEQ (Move Quick) instruction.
// Format: 0111 <reg> 0 <8-bit data>
func (c *CPU) opMOVEQ(inst *DecodedInstruction) error {
	// The immediate data was stored in SrcReg by the decoder.
	data := int8(inst.SrcReg & 0xFF)
	value := uint32(int32(data))

	c.D[inst.DstReg] = value

	c.CCR &^= SRV | SRC
	c.setNZ(value, SizeLong)
	c.Cycles -= 4
	return nil
}

// opMOVEA handles the MOVEA (Move Address) instruction.
func (c *CPU) opMOVEA(inst *DecodedInstruction) error {
	// MOVEA only supports word and long sizes.
	if inst.Size == SizeByte {
		return fmt.Errorf("invalid size for MOVEA: .B")
	}

	value, err := c.GetOperand(inst.SrcMode, inst.SrcReg, inst.Size)
	if err != nil {
		return fmt.Errorf("MOVEA failed to get source operand: %w", err)
	}

	// If the size is word, the source is sign-extended to 32 bits.
	if inst.Size == SizeWord {
		value = uint32(signExtend16(uint16(value)))
	}

	c.A[inst.DstReg] = value
	c.Cycles -= 4 + eaCycles(inst.SrcMode, inst.SrcReg, inst.Size)
	return nil
}

// opMOVE handles the general MOVE instruction.
func (c *CPU) opMOVE(inst *DecodedInstruction) error {
	value, err := c.GetOperand(inst.SrcMode, inst.SrcReg, inst.Size)
	if err != nil {
		return fmt.Errorf("MOVE failed to get source operand: %w", err)
	}

	err = c.PutOperand(inst.DstMode, inst.DstReg, inst.Size, value)
	if err != nil {
		return fmt.Errorf("MOVE failed to put destination operand: %w", err)
	}

	c.CCR &^= SRV | SRC
	c.setNZ(value, inst.Size)
	c.Cycles -= 4 + eaCycles(inst.SrcMode, inst.SrcReg, inst.Size) + eaCycles(inst.DstMode, inst.DstReg, inst.Size)
	return nil
}

// opMOVEToSR handles MOVE <ea>,SR. Lowering the mask here lets a pending
// interrupt in before the next instruction.
func (c *CPU) opMOVEToSR(inst *DecodedInstruction) error {
	if !c.Supervisor() {
		c.privilegeViolation()
		return nil
	}
	value, err := c.GetOperand(inst.SrcMode, inst.SrcReg, SizeWord)
	if err != nil {
		return fmt.Errorf("MOVE to SR failed to get source operand: %w", err)
	}
	c.SetSR(uint16(value))
	c.Cycles -= 12 + eaCycles(inst.SrcMode, inst.SrcReg, SizeWord)
	return nil
}

// opLEA handles LEA <ea>,An.
func (c *CPU) opLEA(inst *DecodedInstruction) error {
	op, err := c.resolve(inst.SrcMode, inst.SrcReg, SizeLong)
	if err != nil {
		return fmt.Errorf("LEA failed to resolve address: %w", err)
	}
	c.A[inst.DstReg] = op.addr
	c.Cycles -= eaCycles(inst.SrcMode, inst.SrcReg, SizeWord)
	return nil
}
