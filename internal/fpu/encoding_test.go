package fpu

import "testing"

func TestRoundBitsRoundTrip(t *testing.T) {
	for _, m := range []RoundingMode{ToNearest, Downward, Upward, TowardZero} {
		bits, ok := roundBits(m)
		if !ok {
			t.Fatalf("roundBits(%v) rejected a valid mode", m)
		}
		got, ok := roundMode(uint32(bits))
		if !ok || got != m {
			t.Fatalf("roundMode(roundBits(%v)) = %v, %v", m, got, ok)
		}
	}

	if _, ok := roundBits(RoundingMode(4)); ok {
		t.Fatal("roundBits accepted an out-of-range mode")
	}
}

func TestStatusBitsMasksUndefinedKinds(t *testing.T) {
	// Bits above the exception field must never reach hardware.
	if got := statusBits(Exception(0xFFC0)); got != 0 {
		t.Fatalf("statusBits leaked bits outside the flag field: %#x", got)
	}
	if got := statusBits(All); got != uint16(All) {
		t.Fatalf("statusBits(All) = %#x, want %#x", got, uint16(All))
	}
}

func TestExceptionString(t *testing.T) {
	cases := []struct {
		e    Exception
		want string
	}{
		{0, "none"},
		{Invalid, "invalid"},
		{DivByZero | Inexact, "divbyzero|inexact"},
	}
	for _, c := range cases {
		if got := c.e.String(); got != c.want {
			t.Errorf("Exception(%#x).String() = %q, want %q", uint16(c.e), got, c.want)
		}
	}
}

func TestRoundingModeString(t *testing.T) {
	cases := map[RoundingMode]string{
		ToNearest:  "nearest",
		Downward:   "down",
		Upward:     "up",
		TowardZero: "zero",
	}
	for m, want := range cases {
		if got := m.String(); got != want {
			t.Errorf("RoundingMode(%d).String() = %q, want %q", m, got, want)
		}
	}
}
