//go:build !amd64

package native

import (
	"github.com/tinyrange/fpenv/internal/fpu"
)

// Open reports that direct register access is unavailable.
func Open() (fpu.Registers, error) {
	return nil, ErrUnsupported
}
