package cpu

// logicalPC returns the program counter as the host sees it.
func (c *CPU) logicalPC() uint32 {
	return uint32(c.PC - c.MemBase)
}

// jump rebases PC onto the page holding addr.
func (c *CPU) jump(addr uint32) {
	c.PC = c.bus.CheckPC(uintptr(addr) + c.MemBase)
}

// advance moves PC forward by n bytes, rebasing when it enters a new page.
func (c *CPU) advance(n uint32) {
	from := c.logicalPC()
	c.PC += uintptr(n)
	if (from^(from+n))&0xFF0000 != 0 {
		c.PC = c.bus.CheckPC(c.PC)
	}
}

// fetch16 reads the word at PC and advances past it.
func (c *CPU) fetch16() uint16 {
	v := c.fetch.Fetch16(c.logicalPC())
	c.advance(2)
	return v
}

// fetch32 reads the long word at PC and advances past it.
func (c *CPU) fetch32() uint32 {
	hi := c.fetch16()
	lo := c.fetch16()
	return uint32(hi)<<16 | uint32(lo)
}

// readSized reads data space.
func (c *CPU) readSized(addr uint32, size Size) uint32 {
	switch size {
	case SizeByte:
		return uint32(c.bus.Read8(addr))
	case SizeWord:
		return uint32(c.bus.Read16(addr))
	}
	return c.bus.Read32(addr)
}

// fetchSized reads program space.
func (c *CPU) fetchSized(addr uint32, size Size) uint32 {
	switch size {
	case SizeByte:
		return uint32(c.fetch.Fetch8(addr))
	case SizeWord:
		return uint32(c.fetch.Fetch16(addr))
	}
	return c.fetch.Fetch32(addr)
}

// writeSized writes data space.
func (c *CPU) writeSized(addr uint32, size Size, val uint32) {
	switch size {
	case SizeByte:
		c.bus.Write8(addr, uint8(val))
	case SizeWord:
		c.bus.Write16(addr, uint16(val))
	default:
		c.bus.Write32(addr, val)
	}
}

// push16 pushes a word onto the active stack.
func (c *CPU) push16(val uint16) {
	c.A[7] -= 2
	c.bus.Write16(c.A[7], val)
}

// push32 pushes a long word onto the active stack.
func (c *CPU) push32(val uint32) {
	c.A[7] -= 4
	c.bus.Write32(c.A[7], val)
}

// pop16 pops a word from the active stack.
func (c *CPU) pop16() uint16 {
	v := c.bus.Read16(c.A[7])
	c.A[7] += 2
	return v
}

// pop32 pops a long word from the active stack.
func (c *CPU) pop32() uint32 {
	v := c.bus.Read32(c.A[7])
	c.A[7] += 4
	return v
}

// WordsToBytes converts a slice of 16-bit words to a big-endian byte slice.
func WordsToBytes(words []uint16) []byte {
	out := make([]byte, len(words)*2)
	for i, w := range words {
		out[i*2] = byte(w >> 8)
		out[i*2+1] = byte(w)
	}
	return out
}
