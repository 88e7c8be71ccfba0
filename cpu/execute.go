package cpu

// Execute fetches, decodes, and executes a single instruction. An opcode the
// core cannot execute raises the illegal instruction exception.
func (c *CPU) Execute() error {
	c.PrevPC, c.PrevBase = c.PC, c.MemBase

	// Fetch
	opcode := c.fetch16()

	// Decode
	inst, err := c.Decode(opcode)
	if err == nil {
		// Execute
		err = inst.Handler(c, inst)
	}
	if err != nil {
		c.illegal()
	}
	return err
}

// step takes a pending interrupt, then executes one instruction unless the
// CPU is stopped.
func (c *CPU) step() {
	if c.irqPending() {
		c.interrupt()
	}
	if c.Stopped() {
		return
	}
	if err := c.Execute(); err != nil {
		c.logf("%06X: %v", uint32(c.PrevPC-c.PrevBase), err)
	}
}

// Run executes instructions until Cycles is used up. At least one
// instruction runs, so a budget of zero executes exactly one. A halted or
// stopped CPU gives up the rest of its budget without executing.
func (c *CPU) Run() {
	for {
		if c.Halted() {
			c.burn()
			return
		}
		c.step()
		if c.Stopped() {
			c.burn()
			return
		}
		if c.Cycles <= 0 {
			return
		}
	}
}

func (c *CPU) burn() {
	if c.Cycles > 0 {
		c.Cycles = 0
	}
}
