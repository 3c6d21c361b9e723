package fpu

// DefaultEnv is the sentinel accepted by SetEnv to reset the environment to
// its fixed baseline. Its bytes are never read; only the pointer identity
// matters.
var DefaultEnv = new(Snapshot)

// GetEnv captures the full floating point environment into snap using the
// platform's native layout.
func GetEnv(r Registers, snap *Snapshot) error {
	captureEnv(r, snap)
	return nil
}

// SetEnv restores a previously captured environment. Passing DefaultEnv
// resets to the baseline instead: all exceptions masked, round-to-nearest,
// extended internal precision, all flags cleared, private x87 words zeroed,
// and the MXCSR flush-to-zero and denormals-are-zero bits cleared.
func SetEnv(r Registers, snap *Snapshot) error {
	if snap == DefaultEnv {
		resetEnv(r)
		return nil
	}
	restoreEnv(r, snap)
	return nil
}

func resetEnv(r Registers) {
	env := r.ReadLegacyEnv()
	env.StatusWord &^= exceptionBits
	env.Private = [5]uint32{}
	env.ControlWord |= exceptionBits
	env.ControlWord &^= 0x3 << x87RoundPos
	env.ControlWord |= 0x3 << x87PrecisionPos
	r.WriteLegacyEnv(env)

	// MXCSR has no precision field but adds the two denormal handling
	// bits; reset those along with the flags, masks, and rounding.
	mxcsr := r.ReadMXCSR()
	mxcsr &^= exceptionBits
	mxcsr &^= mxcsrDAZ
	mxcsr |= exceptionBits << mxcsrMaskShift
	mxcsr &^= 0x3 << mxcsrRoundPos
	mxcsr &^= mxcsrFTZ
	r.WriteMXCSR(mxcsr)
}
