package fpu_test

import (
	"errors"
	"testing"

	"github.com/tinyrange/fpenv/internal/fpu"
	"github.com/tinyrange/fpenv/internal/fpu/softcore"
)

// checkMaskPair fails the test if the x87 and MXCSR mask fields disagree.
func checkMaskPair(t *testing.T, c *softcore.Core) {
	t.Helper()
	x87 := uint32(c.ReadControlWord()) & 0x3F
	sse := (c.ReadMXCSR() >> 7) & 0x3F
	if x87 != sse {
		t.Fatalf("mask fields diverged: x87 %#x, mxcsr %#x", x87, sse)
	}
}

func TestEnableDisableExcept(t *testing.T) {
	c := softcore.New()

	if got := fpu.Except(c); got != 0 {
		t.Fatalf("power-on enabled set = %s, want none", got)
	}

	prev := fpu.EnableExcept(c, fpu.Invalid|fpu.Overflow)
	if prev != 0 {
		t.Fatalf("EnableExcept returned previous set %s, want none", prev)
	}
	if got := fpu.Except(c); got != fpu.Invalid|fpu.Overflow {
		t.Fatalf("enabled set = %s, want invalid|overflow", got)
	}
	checkMaskPair(t, c)

	prev = fpu.DisableExcept(c, fpu.Invalid)
	if prev != fpu.Invalid|fpu.Overflow {
		t.Fatalf("DisableExcept returned previous set %s, want invalid|overflow", prev)
	}
	if got := fpu.Except(c); got != fpu.Overflow {
		t.Fatalf("enabled set = %s, want overflow", got)
	}
	checkMaskPair(t, c)
}

func TestSetClearTestExcept(t *testing.T) {
	c := softcore.New()

	if err := fpu.SetExcept(c, fpu.DivByZero|fpu.Inexact); err != nil {
		t.Fatalf("SetExcept: %v", err)
	}
	if got := fpu.TestExcept(c, fpu.All); got != fpu.DivByZero|fpu.Inexact {
		t.Fatalf("flags = %s, want divbyzero|inexact", got)
	}
	if got := fpu.TestExcept(c, fpu.DivByZero); got != fpu.DivByZero {
		t.Fatalf("TestExcept(divbyzero) = %s", got)
	}
	if got := fpu.TestExcept(c, fpu.Overflow); got != 0 {
		t.Fatalf("TestExcept(overflow) = %s, want none", got)
	}

	// Setting flags on a fully masked unit must not deliver anything.
	if c.TrapCount() != 0 {
		t.Fatalf("SetExcept delivered %d traps", c.TrapCount())
	}

	if err := fpu.ClearExcept(c, fpu.DivByZero); err != nil {
		t.Fatalf("ClearExcept: %v", err)
	}
	if got := fpu.TestExcept(c, fpu.All); got != fpu.Inexact {
		t.Fatalf("flags after clear = %s, want inexact", got)
	}
}

func TestTestExceptSeesBothRegisters(t *testing.T) {
	c := softcore.New()

	// A flag raised only in MXCSR.
	c.WriteMXCSR(c.ReadMXCSR() | uint32(fpu.Underflow))
	if got := fpu.TestExcept(c, fpu.All); got != fpu.Underflow {
		t.Fatalf("flags = %s, want underflow from mxcsr alone", got)
	}

	// A flag raised only in the x87 status word.
	env := c.ReadLegacyEnv()
	env.StatusWord |= uint16(fpu.Invalid)
	c.WriteLegacyEnv(env)
	if got := fpu.TestExcept(c, fpu.All); got != fpu.Invalid|fpu.Underflow {
		t.Fatalf("flags = %s, want invalid|underflow", got)
	}
}

func TestRoundModes(t *testing.T) {
	c := softcore.New()

	if mode, err := fpu.Round(c); err != nil || mode != fpu.ToNearest {
		t.Fatalf("power-on rounding = %v, %v; want nearest", mode, err)
	}

	for _, m := range []fpu.RoundingMode{fpu.Downward, fpu.Upward, fpu.TowardZero, fpu.ToNearest} {
		if err := fpu.SetRound(c, m); err != nil {
			t.Fatalf("SetRound(%v): %v", m, err)
		}
		got, err := fpu.Round(c)
		if err != nil || got != m {
			t.Fatalf("Round after SetRound(%v) = %v, %v", m, got, err)
		}

		x87 := (c.ReadControlWord() >> 10) & 0x3
		sse := (c.ReadMXCSR() >> 13) & 0x3
		if uint32(x87) != sse {
			t.Fatalf("rounding fields diverged: x87 %#x, mxcsr %#x", x87, sse)
		}
	}
}

func TestSetRoundRejectsUnknownMode(t *testing.T) {
	c := softcore.New()
	if err := fpu.SetRound(c, fpu.Upward); err != nil {
		t.Fatalf("SetRound: %v", err)
	}

	err := fpu.SetRound(c, fpu.RoundingMode(7))
	if !errors.Is(err, fpu.ErrBadRoundingMode) {
		t.Fatalf("SetRound(7) = %v, want ErrBadRoundingMode", err)
	}
	if got, _ := fpu.Round(c); got != fpu.Upward {
		t.Fatalf("rejected SetRound changed the mode to %v", got)
	}
}

func TestFlushToZeroDenormalsAreZero(t *testing.T) {
	c := softcore.New()

	if fpu.FlushToZero(c) || fpu.DenormalsAreZero(c) {
		t.Fatal("ftz/daz set at power-on")
	}

	fpu.SetFlushToZero(c, true)
	fpu.SetDenormalsAreZero(c, true)
	if !fpu.FlushToZero(c) || !fpu.DenormalsAreZero(c) {
		t.Fatal("ftz/daz did not latch")
	}

	// The bits are independent.
	fpu.SetFlushToZero(c, false)
	if fpu.FlushToZero(c) || !fpu.DenormalsAreZero(c) {
		t.Fatal("clearing ftz disturbed daz")
	}
}
