//go:build amd64

package factory

import (
	"golang.org/x/sys/cpu"

	"github.com/tinyrange/fpenv/internal/fpu"
	"github.com/tinyrange/fpenv/internal/fpu/native"
)

// Open returns direct hardware register access. SSE2 is architecturally
// guaranteed on x86-64; the feature check guards environments where
// detection is unavailable, which get the software core instead.
func Open() (fpu.Registers, error) {
	if !cpu.Initialized || !cpu.X86.HasSSE2 {
		return Software(), nil
	}
	return native.Open()
}
