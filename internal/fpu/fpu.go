// Package fpu implements a portable control layer over the x86-64
// floating point environment: the legacy x87 control and status words and
// the SSE MXCSR register. All higher-level operations are expressed against
// the Registers interface so the same logic drives real hardware and the
// software core used for testing and non-x86 hosts.
package fpu

import (
	"errors"
	"strings"
)

var (
	ErrBadRoundingMode = errors.New("unrecognized rounding mode")
	ErrBadRoundingBits = errors.New("unrecognized hardware rounding code")
)

// Exception is a bitmask of floating point exception kinds. The constants
// use the encoding shared by the x87 status word and the low bits of MXCSR.
type Exception uint16

const (
	Invalid   Exception = 0x01
	Denormal  Exception = 0x02
	DivByZero Exception = 0x04
	Overflow  Exception = 0x08
	Underflow Exception = 0x10
	Inexact   Exception = 0x20
)

var exceptionNames = []struct {
	bit  Exception
	name string
}{
	{Invalid, "invalid"},
	{Denormal, "denormal"},
	{DivByZero, "divbyzero"},
	{Overflow, "overflow"},
	{Underflow, "underflow"},
	{Inexact, "inexact"},
}

func (e Exception) String() string {
	if e == 0 {
		return "none"
	}
	var parts []string
	for _, n := range exceptionNames {
		if e&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// RoundingMode is the 2-bit rounding control code common to the x87 control
// word (bits 10-11) and MXCSR (bits 13-14).
type RoundingMode uint8

const (
	ToNearest RoundingMode = iota
	Downward
	Upward
	TowardZero
)

func (m RoundingMode) String() string {
	switch m {
	case ToNearest:
		return "nearest"
	case Downward:
		return "down"
	case Upward:
		return "up"
	case TowardZero:
		return "zero"
	default:
		return "invalid"
	}
}

// LegacyEnv is the 28-byte x87 environment image stored and loaded by the
// FNSTENV and FLDENV instructions. The Private words hold the tag word and
// the last instruction and operand pointers; they are opaque to this layer
// and must survive round trips untouched.
type LegacyEnv struct {
	ControlWord uint16
	Pad1        uint16
	StatusWord  uint16
	Pad2        uint16
	Private     [5]uint32
}

// Registers is the raw register accessor implemented once per backend. It
// performs mechanical register transfer only; every method completes in
// bounded time and cannot fail.
type Registers interface {
	// ReadLegacyEnv returns the full x87 environment block. Implementations
	// must be non-destructive (FNSTENV masks all exceptions as a side
	// effect, so the native backend reloads the image it stored).
	ReadLegacyEnv() LegacyEnv
	WriteLegacyEnv(LegacyEnv)

	ReadControlWord() uint16
	WriteControlWord(uint16)
	ReadStatusWord() uint16

	ReadMXCSR() uint32
	WriteMXCSR(uint32)

	// Wait executes the synchronizing instruction, forcing completion of
	// pending x87 operations and delivery of any pending unmasked
	// exception before execution continues.
	Wait()
}
