//go:build !windows

package fpu_test

import (
	"testing"

	"github.com/tinyrange/fpenv/internal/fpu"
	"github.com/tinyrange/fpenv/internal/fpu/softcore"
)

// On layouts carrying x87 state a restore imposes the snapshot's flag bits,
// clearing any raised since the capture. (The 8-byte layout has no x87
// words, so there this only holds for the MXCSR copy of the flags.)
func TestRestoreClearsLaterFlags(t *testing.T) {
	c := softcore.New()

	var clean fpu.Snapshot
	if err := fpu.GetEnv(c, &clean); err != nil {
		t.Fatalf("GetEnv: %v", err)
	}

	if err := fpu.RaiseExcept(c, fpu.Invalid|fpu.Overflow); err != nil {
		t.Fatalf("RaiseExcept: %v", err)
	}
	if got := fpu.TestExcept(c, fpu.All); got == 0 {
		t.Fatal("raise left no flags")
	}

	if err := fpu.SetEnv(c, &clean); err != nil {
		t.Fatalf("SetEnv: %v", err)
	}
	if got := fpu.TestExcept(c, fpu.All); got != 0 {
		t.Fatalf("flags after restoring a clean snapshot = %s, want none", got)
	}
}

// Restore keeps the unit's current private x87 words rather than imposing
// stale tag and pointer data from the capture.
func TestRestorePreservesPrivateWords(t *testing.T) {
	c := softcore.New()

	var snap fpu.Snapshot
	if err := fpu.GetEnv(c, &snap); err != nil {
		t.Fatalf("GetEnv: %v", err)
	}

	env := c.ReadLegacyEnv()
	env.Private = [5]uint32{0x1111, 0x2222, 0x3333, 0x4444, 0x5555}
	c.WriteLegacyEnv(env)

	if err := fpu.SetEnv(c, &snap); err != nil {
		t.Fatalf("SetEnv: %v", err)
	}
	got := c.ReadLegacyEnv()
	if got.Private != env.Private {
		t.Fatalf("restore rewrote private words: %v, want %v", got.Private, env.Private)
	}
}
