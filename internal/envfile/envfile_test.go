package envfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tinyrange/fpenv/internal/fpu"
	"github.com/tinyrange/fpenv/internal/fpu/softcore"
)

const sampleEnv = `
version: 1
rounding: zero
enable: [invalid, divbyzero]
clearFlags: true
flushToZero: true
denormalsAreZero: false
`

func TestParseAndApply(t *testing.T) {
	spec, err := Parse([]byte(sampleEnv))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	c := softcore.New()
	// Pre-existing flags should be cleared by clearFlags.
	if err := fpu.SetExcept(c, fpu.Inexact); err != nil {
		t.Fatalf("SetExcept: %v", err)
	}

	if err := spec.Apply(c); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if mode, _ := fpu.Round(c); mode != fpu.TowardZero {
		t.Fatalf("rounding = %v, want zero", mode)
	}
	if got := fpu.Except(c); got != fpu.Invalid|fpu.DivByZero {
		t.Fatalf("enabled set = %s, want invalid|divbyzero", got)
	}
	if got := fpu.TestExcept(c, fpu.All); got != 0 {
		t.Fatalf("flags = %s, want none after clearFlags", got)
	}
	if !fpu.FlushToZero(c) {
		t.Fatal("flushToZero not applied")
	}
	if fpu.DenormalsAreZero(c) {
		t.Fatal("denormalsAreZero should be off")
	}
}

func TestApplyOmittedFieldsLeaveStateAlone(t *testing.T) {
	spec, err := Parse([]byte("version: 1\ndisable: [all]\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	c := softcore.New()
	if err := fpu.SetRound(c, fpu.Upward); err != nil {
		t.Fatalf("SetRound: %v", err)
	}
	fpu.SetFlushToZero(c, true)

	if err := spec.Apply(c); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if mode, _ := fpu.Round(c); mode != fpu.Upward {
		t.Fatalf("omitted rounding changed the mode to %v", mode)
	}
	if !fpu.FlushToZero(c) {
		t.Fatal("omitted flushToZero cleared the bit")
	}
}

func TestParseRejectsUnknownNames(t *testing.T) {
	cases := []string{
		"rounding: sideways\n",
		"enable: [imaginary]\n",
		"disable: [overflw]\n",
		"version: 7\n",
	}
	for _, src := range cases {
		if _, err := Parse([]byte(src)); err == nil {
			t.Errorf("Parse(%q) accepted invalid input", strings.TrimSpace(src))
		}
	}
}

func TestParseExceptions(t *testing.T) {
	set, err := ParseExceptions([]string{"underflow", "inexact"})
	if err != nil {
		t.Fatalf("ParseExceptions: %v", err)
	}
	if set != fpu.Underflow|fpu.Inexact {
		t.Fatalf("set = %s, want underflow|inexact", set)
	}

	if set, err := ParseExceptions([]string{"all"}); err != nil || set != fpu.All {
		t.Fatalf("ParseExceptions(all) = %s, %v", set, err)
	}
	if _, err := ParseExceptions([]string{"nan"}); err == nil {
		t.Fatal("ParseExceptions accepted an unknown kind")
	}
}

func TestParseRounding(t *testing.T) {
	if mode, err := ParseRounding("down"); err != nil || mode != fpu.Downward {
		t.Fatalf("ParseRounding(down) = %v, %v", mode, err)
	}
	if _, err := ParseRounding("downwards"); err == nil {
		t.Fatal("ParseRounding accepted an unknown mode")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.yaml")
	if err := os.WriteFile(path, []byte(sampleEnv), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	spec, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if spec.Rounding != "zero" {
		t.Fatalf("Rounding = %q, want zero", spec.Rounding)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Load of a missing file succeeded")
	}
}
