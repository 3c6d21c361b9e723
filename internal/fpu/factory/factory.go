// Package factory selects a register backend for the host. Hosts with
// direct register access get the native backend; everything else falls back
// to the software core.
package factory

import (
	"github.com/tinyrange/fpenv/internal/fpu"
	"github.com/tinyrange/fpenv/internal/fpu/softcore"
)

// Software returns a software register core regardless of the host. Useful
// for tests and for manipulating environments that never touch hardware.
func Software() fpu.Registers {
	return softcore.New()
}
