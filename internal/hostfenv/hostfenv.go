//go:build (linux || darwin) && amd64

package hostfenv

import (
	"fmt"
	"sync"

	"github.com/ebitengine/purego"

	"github.com/tinyrange/fpenv/internal/fpu"
)

var (
	loadOnce sync.Once
	loadErr  error

	fegetround    func() int32
	fesetround    func(int32) int32
	fetestexcept  func(int32) int32
	feclearexcept func(int32) int32
)

// Load binds the host math library. Safe to call repeatedly; the first
// error is sticky.
func Load() error {
	loadOnce.Do(func() {
		lib, err := purego.Dlopen(libraryPath, purego.RTLD_GLOBAL|purego.RTLD_LAZY)
		if err != nil {
			loadErr = fmt.Errorf("purego dlopen %s: %w", libraryPath, err)
			return
		}
		purego.RegisterLibFunc(&fegetround, lib, "fegetround")
		purego.RegisterLibFunc(&fesetround, lib, "fesetround")
		purego.RegisterLibFunc(&fetestexcept, lib, "fetestexcept")
		purego.RegisterLibFunc(&feclearexcept, lib, "feclearexcept")
	})
	return loadErr
}

// x86 libcs define FE_TONEAREST, FE_DOWNWARD, FE_UPWARD, FE_TOWARDZERO as
// the hardware rounding code at the x87 control word position (bits 10-11),
// and the FE_* exception macros as the hardware flag encoding.

func hostRound(m fpu.RoundingMode) int32 {
	return int32(m) << 10
}

func fromHostRound(v int32) (fpu.RoundingMode, bool) {
	if v&^0xC00 != 0 {
		return 0, false
	}
	return fpu.RoundingMode(v >> 10), true
}

// Round returns the host library's current rounding mode.
func Round() (fpu.RoundingMode, error) {
	if err := Load(); err != nil {
		return 0, err
	}
	mode, ok := fromHostRound(fegetround())
	if !ok {
		return 0, fpu.ErrBadRoundingBits
	}
	return mode, nil
}

// SetRound sets the rounding mode through the host library.
func SetRound(m fpu.RoundingMode) error {
	if err := Load(); err != nil {
		return err
	}
	if rc := fesetround(hostRound(m)); rc != 0 {
		return fmt.Errorf("fesetround(%s) failed with %d", m, rc)
	}
	return nil
}

// TestExcept returns the host library's view of the raised exception flags
// within e.
func TestExcept(e fpu.Exception) (fpu.Exception, error) {
	if err := Load(); err != nil {
		return 0, err
	}
	return fpu.Exception(fetestexcept(int32(e))) & fpu.All, nil
}

// ClearExcept lowers exception flags through the host library.
func ClearExcept(e fpu.Exception) error {
	if err := Load(); err != nil {
		return err
	}
	if rc := feclearexcept(int32(e)); rc != 0 {
		return fmt.Errorf("feclearexcept(%s) failed with %d", e, rc)
	}
	return nil
}
