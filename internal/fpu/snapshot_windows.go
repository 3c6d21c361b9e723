//go:build windows

package fpu

// Layout is the snapshot layout native to this platform.
const Layout = LayoutWindows

// SnapshotSize matches the size of the platform's public environment-state
// type (the MSVC fenv_t: one 32-bit control word and one 32-bit status
// word).
const SnapshotSize = 8

// All is the set of exception kinds this platform defines. The Windows
// control word tracks the denormal operand exception explicitly.
const All = Invalid | Denormal | DivByZero | Overflow | Underflow | Inexact

// Snapshot is an opaque capture of the full floating point environment.
type Snapshot [SnapshotSize]byte

func captureEnv(r Registers, snap *Snapshot) {
	encodeWindowsSnapshot(snap[:], r.ReadMXCSR())
}

func restoreEnv(r Registers, snap *Snapshot) {
	// The MSVC fenv_t models no x87 state, so restore writes MXCSR only.
	r.WriteMXCSR(decodeWindowsSnapshot(snap[:]))
}
