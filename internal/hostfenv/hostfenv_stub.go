//go:build !((linux || darwin) && amd64)

package hostfenv

import (
	"github.com/tinyrange/fpenv/internal/fpu"
)

// Load reports that no host library can be bound on this platform.
func Load() error { return ErrUnavailable }

func Round() (fpu.RoundingMode, error)                { return 0, ErrUnavailable }
func SetRound(fpu.RoundingMode) error                 { return ErrUnavailable }
func TestExcept(fpu.Exception) (fpu.Exception, error) { return 0, ErrUnavailable }
func ClearExcept(fpu.Exception) error                 { return ErrUnavailable }
