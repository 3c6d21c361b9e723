//go:build amd64

package native

import (
	"github.com/tinyrange/fpenv/internal/fpu"
)

// Registers implements fpu.Registers on top of the real x87 and MXCSR
// registers.
type Registers struct{}

// Open returns a hardware register accessor.
func Open() (fpu.Registers, error) {
	return Registers{}, nil
}

func (Registers) ReadLegacyEnv() fpu.LegacyEnv {
	var env fpu.LegacyEnv
	x87StoreEnv(&env)
	return env
}

func (Registers) WriteLegacyEnv(env fpu.LegacyEnv) {
	x87LoadEnv(&env)
}

func (Registers) ReadControlWord() uint16 {
	return x87ControlWord()
}

func (Registers) WriteControlWord(cw uint16) {
	x87LoadControlWord(cw)
}

func (Registers) ReadStatusWord() uint16 {
	return x87StatusWord()
}

func (Registers) ReadMXCSR() uint32 {
	return readMXCSR()
}

func (Registers) WriteMXCSR(v uint32) {
	writeMXCSR(v)
}

func (Registers) Wait() {
	fwait()
}

var _ fpu.Registers = Registers{}

// Implemented in regs_amd64.s.

//go:noescape
func x87StoreEnv(env *fpu.LegacyEnv)

//go:noescape
func x87LoadEnv(env *fpu.LegacyEnv)

func x87ControlWord() uint16
func x87LoadControlWord(cw uint16)
func x87StatusWord() uint16
func readMXCSR() uint32
func writeMXCSR(v uint32)
func fwait()
