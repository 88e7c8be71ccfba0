package cpu

// level returns the latched interrupt level the CPU recognises. Anything
// above 7 is treated as 7.
func (c *CPU) level() uint32 {
	if c.IRQ > 7 {
		return 7
	}
	return c.IRQ
}

// irqPending reports whether the latched level should be taken now. Levels
// 1-6 must exceed the mask. Level 7 cannot be masked and is taken once per
// rising edge.
func (c *CPU) irqPending() bool {
	level := c.level()
	if level != 7 {
		c.nmiLatched = false
	}
	if level == 0 {
		return false
	}
	if level == 7 {
		return !c.nmiLatched
	}
	return level > c.Mask()
}

// interrupt acknowledges the latched level and starts its handler.
func (c *CPU) interrupt() {
	level := c.level()
	vector := VectorAutoBase + level
	if c.IrqCallback != nil {
		switch v := c.IrqCallback(int(level)); v {
		case AutoVector:
		case Spurious:
			vector = VectorSpurious
		default:
			vector = uint32(v) & 0xFF
		}
	}
	if level == 7 {
		c.nmiLatched = true
	}
	c.StateFlags &^= FlagStopped
	c.exception(vector)
	c.SRH = c.SRH&^7 | uint8(level)
	c.Cycles -= cyclesInterrupt
}

// FlushIrq applies the latched level at once, outside of Run. It returns
// the cycles spent taking the interrupt, or zero if none was taken.
func (c *CPU) FlushIrq() int {
	if !c.irqPending() {
		return 0
	}
	before := c.Cycles
	c.interrupt()
	return before - c.Cycles
}
