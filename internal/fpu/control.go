package fpu

// Both hardware registers carry a copy of the exception mask and rounding
// fields. They are logically one piece of state, so every operation below
// that changes one register changes the other identically before returning;
// x87-only and SSE-only code paths would otherwise disagree.

// EnableExcept unmasks the requested exceptions in the x87 control word and
// MXCSR and returns the set that was enabled beforehand. Mask polarity is
// inverted in hardware: a set bit means the exception is suppressed.
func EnableExcept(r Registers, e Exception) Exception {
	bits := statusBits(e)

	cw := r.ReadControlWord()
	prev := exceptions(uint32(^cw) & exceptionBits)
	cw &^= bits
	r.WriteControlWord(cw)

	mxcsr := r.ReadMXCSR()
	mxcsr &^= uint32(bits) << mxcsrMaskShift
	r.WriteMXCSR(mxcsr)

	return prev
}

// DisableExcept masks the requested exceptions in both registers and
// returns the set that was enabled beforehand.
func DisableExcept(r Registers, e Exception) Exception {
	bits := statusBits(e)

	cw := r.ReadControlWord()
	prev := exceptions(uint32(^cw) & exceptionBits)
	cw |= bits
	r.WriteControlWord(cw)

	mxcsr := r.ReadMXCSR()
	mxcsr |= uint32(bits) << mxcsrMaskShift
	r.WriteMXCSR(mxcsr)

	return prev
}

// Except returns the currently enabled exception set. MXCSR is treated as
// authoritative; the paired writes above keep the x87 copy identical.
func Except(r Registers) Exception {
	return exceptions(^(r.ReadMXCSR() >> mxcsrMaskShift) & exceptionBits)
}

// TestExcept returns the subset of e whose flag is raised in either the x87
// status word or MXCSR. Read-only.
func TestExcept(r Registers, e Exception) Exception {
	sw := r.ReadStatusWord()
	mxcsr := r.ReadMXCSR()
	return Exception(statusBits(e)) & exceptions(uint32(sw)|mxcsr)
}

// ClearExcept lowers the requested exception flags. The x87 status word is
// not directly writable, so the full environment block is rewritten.
func ClearExcept(r Registers, e Exception) error {
	bits := statusBits(e)

	env := r.ReadLegacyEnv()
	env.StatusWord &^= bits
	r.WriteLegacyEnv(env)

	mxcsr := r.ReadMXCSR()
	mxcsr &^= uint32(bits)
	r.WriteMXCSR(mxcsr)
	return nil
}

// SetExcept raises the requested exception flags without delivering a trap,
// simulating a prior occurrence of the exceptions.
func SetExcept(r Registers, e Exception) error {
	bits := statusBits(e)

	env := r.ReadLegacyEnv()
	env.StatusWord |= bits
	r.WriteLegacyEnv(env)

	mxcsr := r.ReadMXCSR()
	mxcsr |= uint32(bits)
	r.WriteMXCSR(mxcsr)
	return nil
}

// Round returns the current rounding mode from the MXCSR rounding field.
// The error path is defensive; a 2-bit field cannot hold an unknown code on
// working hardware.
func Round(r Registers) (RoundingMode, error) {
	mode, ok := roundMode(r.ReadMXCSR() >> mxcsrRoundPos)
	if !ok {
		return 0, ErrBadRoundingBits
	}
	return mode, nil
}

// SetRound writes the rounding field of both registers, preserving every
// other bit. An unrecognized mode is rejected without touching hardware.
func SetRound(r Registers, m RoundingMode) error {
	bits, ok := roundBits(m)
	if !ok {
		return ErrBadRoundingMode
	}

	cw := r.ReadControlWord()
	cw = (cw &^ (0x3 << x87RoundPos)) | (bits << x87RoundPos)
	r.WriteControlWord(cw)

	mxcsr := r.ReadMXCSR()
	mxcsr = (mxcsr &^ (0x3 << mxcsrRoundPos)) | (uint32(bits) << mxcsrRoundPos)
	r.WriteMXCSR(mxcsr)
	return nil
}

// FlushToZero reports whether the MXCSR flush-to-zero bit is set. The bit
// has no x87 counterpart.
func FlushToZero(r Registers) bool {
	return r.ReadMXCSR()&mxcsrFTZ != 0
}

// SetFlushToZero sets or clears the MXCSR flush-to-zero bit.
func SetFlushToZero(r Registers, on bool) {
	mxcsr := r.ReadMXCSR()
	if on {
		mxcsr |= mxcsrFTZ
	} else {
		mxcsr &^= mxcsrFTZ
	}
	r.WriteMXCSR(mxcsr)
}

// DenormalsAreZero reports whether the MXCSR denormals-are-zero bit is set.
func DenormalsAreZero(r Registers) bool {
	return r.ReadMXCSR()&mxcsrDAZ != 0
}

// SetDenormalsAreZero sets or clears the MXCSR denormals-are-zero bit.
func SetDenormalsAreZero(r Registers, on bool) {
	mxcsr := r.ReadMXCSR()
	if on {
		mxcsr |= mxcsrDAZ
	} else {
		mxcsr &^= mxcsrDAZ
	}
	r.WriteMXCSR(mxcsr)
}
