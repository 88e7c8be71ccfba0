package cpu

// Status register flags.
const (
	// SRC is carry
	SRC = 1 << 0
	// SRV is overflow
	SRV = 1 << 1
	// SRZ is zero
	SRZ = 1 << 2
	// SRN is negative
	SRN = 1 << 3
	// SRX is extend
	SRX = 1 << 4
	// SRI0 is interrupt level 0
	SRI0 = 1 << 8
	// SRI1 is interrupt level 1
	SRI1 = 1 << 9
	// SRI2 is interrupt level 2
	SRI2 = 1 << 10
	// SRS is supervisor state
	SRS = 1 << 13
	// SRT is trace mode
	SRT = 1 << 15

	// srMask is every bit of SR the 68000 implements.
	srMask = SRT | SRS | SRI2 | SRI1 | SRI0 | SRX | SRN | SRZ | SRV | SRC
)

// GetSR packs the status register.
func (c *CPU) GetSR() uint16 {
	return uint16(c.SRH)<<8 | uint16(c.CCR)
}

// SetSR unpacks sr into the system byte and condition codes. When the
// supervisor bit changes, A7 and OSP trade places.
func (c *CPU) SetSR(sr uint16) {
	sr &= srMask
	if (uint16(c.SRH)<<8^sr)&SRS != 0 {
		c.A[7], c.OSP = c.OSP, c.A[7]
	}
	c.SRH = uint8(sr >> 8)
	c.CCR = uint8(sr)
}

// Supervisor reports whether the CPU is in supervisor mode.
func (c *CPU) Supervisor() bool {
	return c.SRH&(SRS>>8) != 0
}

// Mask returns the interrupt mask.
func (c *CPU) Mask() uint32 {
	return uint32(c.SRH & 7)
}

// setNZ updates the N and Z flags based on a value and operation size.
func (c *CPU) setNZ(value uint32, size Size) {
	c.CCR &^= SRN | SRZ
	if value&size.Mask() == 0 {
		c.CCR |= SRZ
	}
	if value&size.msb() != 0 {
		c.CCR |= SRN
	}
}

// setFlagsArith sets the C, V, N, Z and X flags after an addition.
func (c *CPU) setFlagsArith(src, dst, result uint32, size Size) {
	c.CCR &^= SRX | SRN | SRZ | SRV | SRC

	msb := size.msb()
	s := src & msb
	d := dst & msb
	r := result & msb

	if result&size.Mask() == 0 {
		c.CCR |= SRZ
	}
	if r != 0 {
		c.CCR |= SRN
	}
	// Carry out of the most significant bit.
	if (s&d)|(^r&s)|(^r&d) != 0 {
		c.CCR |= SRC | SRX
	}
	// Operands agree in sign and the result does not.
	if s == d && s != r {
		c.CCR |= SRV
	}
}

// setFlagsSub sets the C, V, N, Z and X flags after dst - src.
func (c *CPU) setFlagsSub(src, dst, result uint32, size Size) {
	c.CCR &^= SRX | SRN | SRZ | SRV | SRC

	msb := size.msb()
	s := src & msb
	d := dst & msb
	r := result & msb

	if result&size.Mask() == 0 {
		c.CCR |= SRZ
	}
	if r != 0 {
		c.CCR |= SRN
	}
	// Borrow into the most significant bit.
	if (s&^d)|(r&^d)|(s&r) != 0 {
		c.CCR |= SRC | SRX
	}
	if s != d && r != d {
		c.CCR |= SRV
	}
}

// condition evaluates one of the sixteen condition codes.
func (c *CPU) condition(cc uint16) bool {
	n := c.CCR&SRN != 0
	z := c.CCR&SRZ != 0
	v := c.CCR&SRV != 0
	cy := c.CCR&SRC != 0
	switch cc & 0xF {
	case 0x0:
		return true
	case 0x1:
		return false
	case 0x2:
		return !cy && !z
	case 0x3:
		return cy || z
	case 0x4:
		return !cy
	case 0x5:
		return cy
	case 0x6:
		return !z
	case 0x7:
		return z
	case 0x8:
		return !v
	case 0x9:
		return v
	case 0xA:
		return !n
	case 0xB:
		return n
	case 0xC:
		return n == v
	case 0xD:
		return n != v
	case 0xE:
		return !z && n == v
	default:
		return z || n != v
	}
}
