//go:build !darwin && !windows

package fpu

// Layout is the snapshot layout native to this platform.
const Layout = LayoutGeneric

// SnapshotSize matches the size of the platform's public environment-state
// type (the glibc x86-64 fenv_t).
const SnapshotSize = 32

// All is the set of exception kinds this platform defines. glibc-style
// hosts expose the denormal operand exception.
const All = Invalid | Denormal | DivByZero | Overflow | Underflow | Inexact

// Snapshot is an opaque capture of the full floating point environment.
type Snapshot [SnapshotSize]byte

func captureEnv(r Registers, snap *Snapshot) {
	encodeGenericSnapshot(snap[:], r.ReadLegacyEnv(), r.ReadMXCSR())
}

func restoreEnv(r Registers, snap *Snapshot) {
	saved, mxcsr := decodeGenericSnapshot(snap[:])

	// The snapshot's private words include pieces like the register-stack
	// tag data, which cannot be imposed on whatever the unit is doing now.
	// Keep the hardware's current private words and apply only the flag
	// bits and the control word.
	env := r.ReadLegacyEnv()
	env.StatusWord = (env.StatusWord &^ exceptionBits) | (saved.StatusWord & exceptionBits)
	env.ControlWord = saved.ControlWord
	r.WriteLegacyEnv(env)

	// MXCSR has no private fields and is written as is.
	r.WriteMXCSR(mxcsr)
}
