// Package fpenv controls the floating point environment of the current
// thread: which exceptions trap, which exception flags are raised, the
// rounding mode, and whole-environment snapshots in the platform's public
// binary layout.
//
// A Unit wraps a register backend. Open returns one over the host's real
// registers where supported; Soft returns one over a software register
// core, which behaves identically and is safe on every platform.
//
// Hardware floating point state belongs to an OS thread. Callers using an
// Open Unit must pin their goroutine with runtime.LockOSThread around any
// sequence of operations.
package fpenv

import (
	"github.com/tinyrange/fpenv/internal/fpu"
	"github.com/tinyrange/fpenv/internal/fpu/factory"
)

// -----------------------------------------------------------------------------
// Type Aliases - These re-export types from internal/fpu
// -----------------------------------------------------------------------------

// Exception is a bitmask of floating point exception kinds.
type Exception = fpu.Exception

// RoundingMode selects how inexact results are rounded.
type RoundingMode = fpu.RoundingMode

// Registers is the raw per-backend register accessor.
type Registers = fpu.Registers

// LegacyEnv is the 28-byte x87 environment block.
type LegacyEnv = fpu.LegacyEnv

// Snapshot is an opaque, fixed-size capture of the full environment in the
// platform's native layout.
type Snapshot = fpu.Snapshot

// LayoutKind identifies a snapshot binary layout.
type LayoutKind = fpu.LayoutKind

// Exception kinds. All is the set this platform defines; Denormal is
// included only on platforms whose public interface has it.
const (
	Invalid   = fpu.Invalid
	Denormal  = fpu.Denormal
	DivByZero = fpu.DivByZero
	Overflow  = fpu.Overflow
	Underflow = fpu.Underflow
	Inexact   = fpu.Inexact
	All       = fpu.All
)

// Rounding modes.
const (
	ToNearest  = fpu.ToNearest
	Downward   = fpu.Downward
	Upward     = fpu.Upward
	TowardZero = fpu.TowardZero
)

// Snapshot layouts. Layout is this platform's native layout and
// SnapshotSize its size in bytes.
const (
	LayoutGeneric = fpu.LayoutGeneric
	LayoutApple   = fpu.LayoutApple
	LayoutWindows = fpu.LayoutWindows

	Layout       = fpu.Layout
	SnapshotSize = fpu.SnapshotSize
)

// Common sentinel errors.
var (
	ErrBadRoundingMode = fpu.ErrBadRoundingMode
	ErrBadRoundingBits = fpu.ErrBadRoundingBits
)

// DefaultEnv is the sentinel accepted by SetEnv to reset the environment
// to its fixed baseline.
var DefaultEnv = fpu.DefaultEnv

// Unit is a floating point environment handle over one register backend.
type Unit struct {
	regs fpu.Registers
}

// Open returns a Unit over the host's registers: direct hardware access on
// amd64, the software core elsewhere.
func Open() (*Unit, error) {
	regs, err := factory.Open()
	if err != nil {
		return nil, err
	}
	return &Unit{regs: regs}, nil
}

// Soft returns a Unit over a fresh software register core.
func Soft() *Unit {
	return &Unit{regs: factory.Software()}
}

// NewUnit returns a Unit over an explicit register backend.
func NewUnit(regs Registers) *Unit {
	return &Unit{regs: regs}
}

// Registers exposes the Unit's backend.
func (u *Unit) Registers() Registers { return u.regs }

// EnableExcept unmasks the given exceptions and returns the previously
// enabled set.
func (u *Unit) EnableExcept(e Exception) Exception { return fpu.EnableExcept(u.regs, e) }

// DisableExcept masks the given exceptions and returns the previously
// enabled set.
func (u *Unit) DisableExcept(e Exception) Exception { return fpu.DisableExcept(u.regs, e) }

// Except returns the currently enabled exception set.
func (u *Unit) Except() Exception { return fpu.Except(u.regs) }

// TestExcept returns the subset of e whose flags are currently raised.
func (u *Unit) TestExcept(e Exception) Exception { return fpu.TestExcept(u.regs, e) }

// ClearExcept lowers the given exception flags.
func (u *Unit) ClearExcept(e Exception) error { return fpu.ClearExcept(u.regs, e) }

// SetExcept raises the given exception flags without delivering traps.
func (u *Unit) SetExcept(e Exception) error { return fpu.SetExcept(u.regs, e) }

// RaiseExcept raises the given exceptions and synchronizes after each so
// their trap handlers actually run, in fixed priority order.
func (u *Unit) RaiseExcept(e Exception) error { return fpu.RaiseExcept(u.regs, e) }

// Round returns the current rounding mode.
func (u *Unit) Round() (RoundingMode, error) { return fpu.Round(u.regs) }

// SetRound sets the rounding mode in both hardware registers.
func (u *Unit) SetRound(m RoundingMode) error { return fpu.SetRound(u.regs, m) }

// FlushToZero reports the MXCSR flush-to-zero bit.
func (u *Unit) FlushToZero() bool { return fpu.FlushToZero(u.regs) }

// SetFlushToZero sets or clears the MXCSR flush-to-zero bit.
func (u *Unit) SetFlushToZero(on bool) { fpu.SetFlushToZero(u.regs, on) }

// DenormalsAreZero reports the MXCSR denormals-are-zero bit.
func (u *Unit) DenormalsAreZero() bool { return fpu.DenormalsAreZero(u.regs) }

// SetDenormalsAreZero sets or clears the MXCSR denormals-are-zero bit.
func (u *Unit) SetDenormalsAreZero(on bool) { fpu.SetDenormalsAreZero(u.regs, on) }

// GetEnv captures the full environment into snap.
func (u *Unit) GetEnv(snap *Snapshot) error { return fpu.GetEnv(u.regs, snap) }

// SetEnv restores a captured environment, or resets to the baseline when
// passed DefaultEnv.
func (u *Unit) SetEnv(snap *Snapshot) error { return fpu.SetEnv(u.regs, snap) }
