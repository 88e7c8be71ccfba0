package cpu

import "fmt"

// opADD handles the ADD instruction.
// This function calculates the result and then calls a helper to set the flags.
func (c *CPU) opADD(inst *DecodedInstruction) error {
	// Bit 8 (opmode bit) determines direction:
	// 0: Dn = Dn + <ea>
	// 1: <ea> = <ea> + Dn
	toEA := inst.OpMode&0x100 != 0

	ea, err := c.resolve(inst.SrcMode, inst.SrcReg, inst.Size)
	if err != nil {
		return fmt.Errorf("ADD failed to resolve operand: %w", err)
	}
	reg := operand{mode: ModeData, reg: inst.DstReg}

	src, dst := c.load(ea, inst.Size), c.load(reg, inst.Size)
	if toEA {
		src, dst = dst, src
	}

	result := dst + src
	c.setFlagsArith(src, dst, result, inst.Size)

	if toEA {
		err = c.store(ea, inst.Size, result)
	} else {
		err = c.store(reg, inst.Size, result)
	}
	if err != nil {
		return fmt.Errorf("ADD failed to put result: %w", err)
	}
	c.Cycles -= 4 + eaCycles(inst.SrcMode, inst.SrcReg, inst.Size)
	if toEA {
		c.Cycles -= 4
	}
	return nil
}

// opADDA handles ADDA. The source is sign-extended and no flags change.
func (c *CPU) opADDA(inst *DecodedInstruction) error {
	src, err := c.GetOperand(inst.SrcMode, inst.SrcReg, inst.Size)
	if err != nil {
		return fmt.Errorf("ADDA failed to get source operand: %w", err)
	}
	if inst.Size == SizeWord {
		src = uint32(signExtend16(uint16(src)))
	}
	c.A[inst.DstReg] += src
	c.Cycles -= 8 + eaCycles(inst.SrcMode, inst.SrcReg, inst.Size)
	return nil
}

// opADDQ handles the ADDQ (Add Quick) instruction.
// Format: 0101 <data> 0 <size> <ea>
func (c *CPU) opADDQ(inst *DecodedInstruction) error {
	return c.quick(inst, false)
}

// opSUBQ handles the SUBQ (Subtract Quick) instruction.
// Format: 0101 <data> 1 <size> <ea>
func (c *CPU) opSUBQ(inst *DecodedInstruction) error {
	return c.quick(inst, true)
}

func (c *CPU) quick(inst *DecodedInstruction, sub bool) error {
	// The immediate value (1-8) was stored in SrcReg by the decoder.
	src := uint32(inst.SrcReg)

	// Address registers take the whole register and leave the flags alone.
	if inst.DstMode == ModeAddr {
		if inst.Size == SizeByte {
			return fmt.Errorf("invalid size .B for quick arithmetic on A%d", inst.DstReg)
		}
		if sub {
			c.A[inst.DstReg] -= src
		} else {
			c.A[inst.DstReg] += src
		}
		c.Cycles -= 8
		return nil
	}

	op, err := c.resolve(inst.DstMode, inst.DstReg, inst.Size)
	if err != nil {
		return fmt.Errorf("quick arithmetic failed to resolve destination: %w", err)
	}
	dst := c.load(op, inst.Size)

	var result uint32
	if sub {
		result = dst - src
		c.setFlagsSub(src, dst, result, inst.Size)
	} else {
		result = dst + src
		c.setFlagsArith(src, dst, result, inst.Size)
	}

	if err := c.store(op, inst.Size, result); err != nil {
		return fmt.Errorf("quick arithmetic failed to put result: %w", err)
	}
	if inst.DstMode == ModeData {
		c.Cycles -= 4
		if inst.Size == SizeLong {
			c.Cycles -= 4
		}
		return nil
	}
	c.Cycles -= 8 + eaCycles(inst.DstMode, inst.DstReg, inst.Size)
	return nil
}
