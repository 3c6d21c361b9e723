//go:build darwin

package fpu

// Layout is the snapshot layout native to this platform.
const Layout = LayoutApple

// SnapshotSize matches the size of the platform's public environment-state
// type (the Darwin x86-64 fenv_t).
const SnapshotSize = 16

// All is the set of exception kinds this platform defines. The Darwin fenv
// interface does not include the denormal operand exception.
const All = Invalid | DivByZero | Overflow | Underflow | Inexact

// Snapshot is an opaque capture of the full floating point environment.
type Snapshot [SnapshotSize]byte

func captureEnv(r Registers, snap *Snapshot) {
	encodeAppleSnapshot(snap[:], r.ReadLegacyEnv(), r.ReadMXCSR())
}

func restoreEnv(r Registers, snap *Snapshot) {
	control, status, mxcsr := decodeAppleSnapshot(snap[:])

	// Apply only the flag bits of the saved status word, keeping the
	// hardware's private state; the control word has no sensitive bits
	// and is written as is.
	env := r.ReadLegacyEnv()
	env.StatusWord = (env.StatusWord &^ exceptionBits) | (status & exceptionBits)
	env.ControlWord = control
	r.WriteLegacyEnv(env)

	r.WriteMXCSR(mxcsr)
}
