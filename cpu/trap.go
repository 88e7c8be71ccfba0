package cpu

// exception enters supervisor mode, stacks PC and SR, and continues at the
// handler of vector. The trace bit is cleared.
func (c *CPU) exception(vector uint32) {
	sr := c.GetSR()
	c.SetSR((sr | SRS) &^ SRT)
	c.push32(c.logicalPC())
	c.push16(sr)
	c.jump(c.bus.Read32(vector * 4))
}

// opTRAP handles the TRAP instruction.
// Format: 0100 1110 0100 <vector>
func (c *CPU) opTRAP(inst *DecodedInstruction) error {
	c.exception(VectorTrapBase + uint32(inst.DstReg))
	c.Cycles -= cyclesException
	return nil
}

// opILLEGAL handles the ILLEGAL instruction. The stacked PC points at the
// offending opcode.
func (c *CPU) opILLEGAL(inst *DecodedInstruction) error {
	c.illegal()
	return nil
}

func (c *CPU) illegal() {
	c.jump(uint32(c.PrevPC - c.PrevBase))
	c.exception(VectorIllegal)
	c.Cycles -= cyclesException
}

// privilegeViolation is raised by supervisor-only instructions in user mode.
func (c *CPU) privilegeViolation() {
	c.jump(uint32(c.PrevPC - c.PrevBase))
	c.exception(VectorPrivilege)
	c.Cycles -= cyclesException
}
