package cpu

import "fmt"

// opNOP handles NOP.
func (c *CPU) opNOP(inst *DecodedInstruction) error {
	c.Cycles -= 4
	return nil
}

// opRESET handles RESET. Only the external devices are reset, through
// ResetCallback; the CPU itself carries on.
func (c *CPU) opRESET(inst *DecodedInstruction) error {
	if !c.Supervisor() {
		c.privilegeViolation()
		return nil
	}
	if c.ResetCallback != nil {
		c.ResetCallback()
	}
	c.Cycles -= 132
	return nil
}

// opSTOP handles STOP #imm: SR is loaded and the CPU waits for an interrupt.
func (c *CPU) opSTOP(inst *DecodedInstruction) error {
	if !c.Supervisor() {
		c.privilegeViolation()
		return nil
	}
	sr := c.fetch16()
	c.SetSR(sr)
	c.StateFlags |= FlagStopped
	c.Cycles -= 4
	return nil
}

// opTAS handles TAS <ea>. Without RealTAS the write-back to memory is
// dropped, as on systems whose bus does not complete the read-modify-write
// cycle. Data registers are always written.
func (c *CPU) opTAS(inst *DecodedInstruction) error {
	op, err := c.resolve(inst.DstMode, inst.DstReg, SizeByte)
	if err != nil {
		return fmt.Errorf("TAS failed to resolve operand: %w", err)
	}
	value := c.load(op, SizeByte)
	c.CCR &^= SRV | SRC
	c.setNZ(value, SizeByte)

	if inst.DstMode == ModeData {
		c.Cycles -= 4
		return c.store(op, SizeByte, value|0x80)
	}
	if c.RealTAS {
		if err := c.store(op, SizeByte, value|0x80); err != nil {
			return fmt.Errorf("TAS failed to put result: %w", err)
		}
	}
	c.Cycles -= 14 + eaCycles(inst.DstMode, inst.DstReg, SizeByte)
	return nil
}
