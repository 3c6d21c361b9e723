package fpu_test

import (
	"testing"

	"github.com/tinyrange/fpenv/internal/fpu"
	"github.com/tinyrange/fpenv/internal/fpu/softcore"
)

func TestEnvRoundTrip(t *testing.T) {
	c := softcore.New()

	if err := fpu.SetRound(c, fpu.Upward); err != nil {
		t.Fatalf("SetRound: %v", err)
	}
	fpu.EnableExcept(c, fpu.DivByZero)
	if err := fpu.SetExcept(c, fpu.Inexact); err != nil {
		t.Fatalf("SetExcept: %v", err)
	}

	var snap fpu.Snapshot
	if err := fpu.GetEnv(c, &snap); err != nil {
		t.Fatalf("GetEnv: %v", err)
	}

	// Disturb everything the snapshot covers.
	if err := fpu.SetRound(c, fpu.TowardZero); err != nil {
		t.Fatalf("SetRound: %v", err)
	}
	fpu.DisableExcept(c, fpu.All)
	fpu.EnableExcept(c, fpu.Underflow)
	if err := fpu.ClearExcept(c, fpu.All); err != nil {
		t.Fatalf("ClearExcept: %v", err)
	}

	if err := fpu.SetEnv(c, &snap); err != nil {
		t.Fatalf("SetEnv: %v", err)
	}

	if mode, _ := fpu.Round(c); mode != fpu.Upward {
		t.Fatalf("rounding after restore = %v, want upward", mode)
	}
	if got := fpu.Except(c); got != fpu.DivByZero {
		t.Fatalf("enabled set after restore = %s, want divbyzero", got)
	}
	if got := fpu.TestExcept(c, fpu.All); got != fpu.Inexact {
		t.Fatalf("flags after restore = %s, want inexact", got)
	}
}

func TestSetEnvDefault(t *testing.T) {
	c := softcore.New()

	// Walk the unit well away from the baseline.
	fpu.EnableExcept(c, fpu.All)
	if err := fpu.SetRound(c, fpu.Downward); err != nil {
		t.Fatalf("SetRound: %v", err)
	}
	if err := fpu.SetExcept(c, fpu.All); err != nil {
		t.Fatalf("SetExcept: %v", err)
	}
	fpu.SetFlushToZero(c, true)
	fpu.SetDenormalsAreZero(c, true)

	if err := fpu.SetEnv(c, fpu.DefaultEnv); err != nil {
		t.Fatalf("SetEnv(DefaultEnv): %v", err)
	}

	if got := fpu.Except(c); got != 0 {
		t.Fatalf("enabled set after reset = %s, want none", got)
	}
	if got := fpu.TestExcept(c, fpu.All); got != 0 {
		t.Fatalf("flags after reset = %s, want none", got)
	}
	if mode, _ := fpu.Round(c); mode != fpu.ToNearest {
		t.Fatalf("rounding after reset = %v, want nearest", mode)
	}
	if fpu.FlushToZero(c) || fpu.DenormalsAreZero(c) {
		t.Fatal("ftz/daz survived reset")
	}
	if cw := c.ReadControlWord(); cw&(0x3<<8) != 0x3<<8 {
		t.Fatalf("control word %#x lost extended precision", cw)
	}
	if env := c.ReadLegacyEnv(); env.Private != ([5]uint32{}) {
		t.Fatalf("private words survived reset: %v", env.Private)
	}
}

// DefaultEnv is recognized by pointer, not by contents; a zero snapshot is
// an ordinary restore.
func TestDefaultEnvIsSentinel(t *testing.T) {
	c := softcore.New()
	fpu.SetFlushToZero(c, true)

	zero := new(fpu.Snapshot)
	if err := fpu.SetEnv(c, zero); err != nil {
		t.Fatalf("SetEnv: %v", err)
	}
	// A zero snapshot decodes to a zero MXCSR, not to the baseline.
	if got := c.ReadMXCSR(); got != 0 {
		t.Fatalf("mxcsr after zero restore = %#x, want 0", got)
	}
}
