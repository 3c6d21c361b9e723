// Package envfile loads declarative floating point environment
// descriptions from YAML and applies them through the control layer.
package envfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tinyrange/fpenv/internal/fpu"
)

// EnvSpec describes a floating point environment. Omitted fields leave the
// corresponding state untouched.
type EnvSpec struct {
	Version int `yaml:"version"`

	// Rounding is one of "nearest", "down", "up", "zero".
	Rounding string `yaml:"rounding,omitempty"`

	// Enable and Disable name exception kinds: "invalid", "denormal",
	// "divbyzero", "overflow", "underflow", "inexact", or "all".
	Enable  []string `yaml:"enable,omitempty"`
	Disable []string `yaml:"disable,omitempty"`

	// ClearFlags lowers all exception flags after the masks are applied.
	ClearFlags bool `yaml:"clearFlags,omitempty"`

	FlushToZero      *bool `yaml:"flushToZero,omitempty"`
	DenormalsAreZero *bool `yaml:"denormalsAreZero,omitempty"`
}

var exceptionByName = map[string]fpu.Exception{
	"invalid":   fpu.Invalid,
	"denormal":  fpu.Denormal,
	"divbyzero": fpu.DivByZero,
	"overflow":  fpu.Overflow,
	"underflow": fpu.Underflow,
	"inexact":   fpu.Inexact,
	"all":       fpu.All,
}

var roundingByName = map[string]fpu.RoundingMode{
	"nearest": fpu.ToNearest,
	"down":    fpu.Downward,
	"up":      fpu.Upward,
	"zero":    fpu.TowardZero,
}

// ParseExceptions resolves exception kind names into a set.
func ParseExceptions(names []string) (fpu.Exception, error) {
	return exceptionSet(names)
}

// ParseRounding resolves a rounding mode name.
func ParseRounding(name string) (fpu.RoundingMode, error) {
	mode, ok := roundingByName[name]
	if !ok {
		return 0, fmt.Errorf("unknown rounding mode %q", name)
	}
	return mode, nil
}

// Parse decodes an EnvSpec from YAML and validates it.
func Parse(data []byte) (*EnvSpec, error) {
	var spec EnvSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse environment file: %w", err)
	}
	if spec.Version == 0 {
		spec.Version = 1
	}
	if spec.Version != 1 {
		return nil, fmt.Errorf("unsupported environment file version %d", spec.Version)
	}
	if spec.Rounding != "" {
		if _, ok := roundingByName[spec.Rounding]; !ok {
			return nil, fmt.Errorf("unknown rounding mode %q", spec.Rounding)
		}
	}
	if _, err := exceptionSet(spec.Enable); err != nil {
		return nil, err
	}
	if _, err := exceptionSet(spec.Disable); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Load reads and parses an environment file.
func Load(path string) (*EnvSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data)
}

func exceptionSet(names []string) (fpu.Exception, error) {
	var set fpu.Exception
	for _, name := range names {
		bit, ok := exceptionByName[name]
		if !ok {
			return 0, fmt.Errorf("unknown exception kind %q", name)
		}
		set |= bit
	}
	return set, nil
}

// Apply writes the described state to the registers. The spec must have
// been produced by Parse or Load.
func (s *EnvSpec) Apply(r fpu.Registers) error {
	if s.Rounding != "" {
		if err := fpu.SetRound(r, roundingByName[s.Rounding]); err != nil {
			return fmt.Errorf("apply rounding: %w", err)
		}
	}

	if enable, err := exceptionSet(s.Enable); err != nil {
		return err
	} else if enable != 0 {
		fpu.EnableExcept(r, enable)
	}
	if disable, err := exceptionSet(s.Disable); err != nil {
		return err
	} else if disable != 0 {
		fpu.DisableExcept(r, disable)
	}

	if s.ClearFlags {
		if err := fpu.ClearExcept(r, fpu.All); err != nil {
			return fmt.Errorf("clear flags: %w", err)
		}
	}

	if s.FlushToZero != nil {
		fpu.SetFlushToZero(r, *s.FlushToZero)
	}
	if s.DenormalsAreZero != nil {
		fpu.SetDenormalsAreZero(r, *s.DenormalsAreZero)
	}
	return nil
}
