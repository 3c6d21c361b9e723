package fpu

// Bit layout of the two hardware registers. The exception flag encoding is
// identical in the x87 status word and MXCSR; the mask and rounding fields
// sit at different offsets in each register.
const (
	exceptionBits = 0x3F

	x87MaskShift    = 0  // control word bits 0-5, 1 = masked
	x87PrecisionPos = 8  // control word bits 8-9
	x87RoundPos     = 10 // control word bits 10-11

	mxcsrFlagShift = 0 // bits 0-5
	mxcsrDAZ       = 1 << 6
	mxcsrMaskShift = 7  // bits 7-12, 1 = masked
	mxcsrRoundPos  = 13 // bits 13-14
	mxcsrFTZ       = 1 << 15
)

// statusBits translates a portable exception set into the shared hardware
// flag encoding, dropping any bits outside the kinds this platform defines.
func statusBits(e Exception) uint16 {
	return uint16(e & All)
}

// exceptions translates hardware flag bits back into a portable set. Bits
// outside the defined kinds are never produced.
func exceptions(bits uint32) Exception {
	return Exception(bits) & All
}

// roundBits maps a portable rounding mode to the 2-bit hardware code. The
// same code is written at x87RoundPos and mxcsrRoundPos.
func roundBits(m RoundingMode) (uint16, bool) {
	switch m {
	case ToNearest, Downward, Upward, TowardZero:
		return uint16(m), true
	default:
		return 0, false
	}
}

// roundMode maps a 2-bit hardware code back to the portable enumeration.
func roundMode(bits uint32) (RoundingMode, bool) {
	switch bits & 0x3 {
	case uint32(ToNearest):
		return ToNearest, true
	case uint32(Downward):
		return Downward, true
	case uint32(Upward):
		return Upward, true
	case uint32(TowardZero):
		return TowardZero, true
	default:
		return 0, false
	}
}
