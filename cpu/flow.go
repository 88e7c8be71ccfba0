package cpu

import "fmt"

// opRTS handles the RTS (Return from Subroutine) instruction.
// Format: 0100 1110 0111 0101 (4E75)
func (c *CPU) opRTS(inst *DecodedInstruction) error {
	c.jump(c.pop32())
	c.Cycles -= 16
	return nil
}

// opRTE handles RTE: SR and PC come off the supervisor stack.
func (c *CPU) opRTE(inst *DecodedInstruction) error {
	if !c.Supervisor() {
		c.privilegeViolation()
		return nil
	}
	sr := c.pop16()
	pc := c.pop32()
	c.SetSR(sr)
	c.jump(pc)
	c.Cycles -= 20
	return nil
}

// branchTarget reads the displacement of a branch. The 8-bit displacement
// lives in the opcode; zero means a 16-bit extension word follows.
func (c *CPU) branchTarget(inst *DecodedInstruction) uint32 {
	base := c.logicalPC()
	disp := int32(int8(inst.SrcReg))
	if disp == 0 {
		disp = signExtend16(c.fetch16())
	}
	return uint32(int32(base) + disp)
}

// opBRA handles BRA.
func (c *CPU) opBRA(inst *DecodedInstruction) error {
	c.jump(c.branchTarget(inst))
	c.Cycles -= 10
	return nil
}

// opBSR handles BSR: the return address is pushed, then a BRA.
func (c *CPU) opBSR(inst *DecodedInstruction) error {
	target := c.branchTarget(inst)
	c.push32(c.logicalPC())
	c.jump(target)
	c.Cycles -= 18
	return nil
}

// opBcc handles the conditional branches.
func (c *CPU) opBcc(inst *DecodedInstruction) error {
	target := c.branchTarget(inst)
	if c.condition(inst.OpMode) {
		c.jump(target)
		c.Cycles -= 10
		return nil
	}
	c.Cycles -= 8
	if inst.SrcReg == 0 {
		c.Cycles -= 4
	}
	return nil
}

// controlAddress resolves the target of JMP and JSR.
func (c *CPU) controlAddress(inst *DecodedInstruction) (uint32, error) {
	switch inst.DstMode {
	case ModeData, ModeAddr, ModeAddrPostInc, ModeAddrPreDec:
		return 0, fmt.Errorf("mode %d is not a control addressing mode", inst.DstMode)
	}
	if inst.DstMode == ModeOther && inst.DstReg == RegImmediate {
		return 0, fmt.Errorf("immediate is not a control addressing mode")
	}
	op, err := c.resolve(inst.DstMode, inst.DstReg, SizeLong)
	if err != nil {
		return 0, err
	}
	return op.addr, nil
}

// opJMP handles JMP <ea>.
func (c *CPU) opJMP(inst *DecodedInstruction) error {
	target, err := c.controlAddress(inst)
	if err != nil {
		return fmt.Errorf("JMP failed to resolve target: %w", err)
	}
	c.jump(target)
	c.Cycles -= 4 + eaCycles(inst.DstMode, inst.DstReg, SizeWord)
	return nil
}

// opJSR handles JSR <ea>.
func (c *CPU) opJSR(inst *DecodedInstruction) error {
	target, err := c.controlAddress(inst)
	if err != nil {
		return fmt.Errorf("JSR failed to resolve target: %w", err)
	}
	c.push32(c.logicalPC())
	c.jump(target)
	c.Cycles -= 12 + eaCycles(inst.DstMode, inst.DstReg, SizeWord)
	return nil
}
