//go:build !amd64

package factory

import (
	"github.com/tinyrange/fpenv/internal/fpu"
)

// Open falls back to the software core; this host has no x86 floating
// point registers to drive.
func Open() (fpu.Registers, error) {
	return Software(), nil
}
