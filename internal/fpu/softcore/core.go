// Package softcore emulates the x86-64 floating point control state in
// software: the x87 environment block and the MXCSR register, with the
// fwait delivery protocol reduced to a trap handler callback. It backs the
// control layer on hosts without direct register access and gives tests a
// deterministic register file.
package softcore

import (
	"github.com/tinyrange/fpenv/internal/fpu"
)

// Power-on state after FNINIT: all exceptions masked, round-to-nearest,
// extended precision, empty register stack (tag word all ones). MXCSR
// resets with all exceptions masked and everything else clear.
const (
	resetControlWord = 0x037F
	resetTagWord     = 0xFFFF
	resetMXCSR       = 0x1F80

	flagBits   = 0x3F
	summaryBit = 0x80 // status word ES, derived from pending exceptions
)

// Core is a software register file implementing fpu.Registers. It is not
// safe for concurrent use; like the hardware state it stands in for, a Core
// belongs to one execution thread.
type Core struct {
	env   fpu.LegacyEnv
	mxcsr uint32

	handler func(pending fpu.Exception)
	traps   int
}

// New returns a Core in the power-on state.
func New() *Core {
	c := &Core{mxcsr: resetMXCSR}
	c.env.ControlWord = resetControlWord
	c.env.Private[0] = resetTagWord
	return c
}

// SetTrapHandler installs the callback invoked when Wait finds a pending
// unmasked exception. The handler runs on the caller's goroutine and may
// reenter the Core; on real hardware a handler typically clears the flag it
// was invoked for, and a handler that does not will be invoked again by the
// next synchronization point.
func (c *Core) SetTrapHandler(h func(pending fpu.Exception)) {
	c.handler = h
}

// TrapCount returns the number of deliveries performed by Wait.
func (c *Core) TrapCount() int {
	return c.traps
}

// pending returns the set of flagged, unmasked x87 exceptions.
func (c *Core) pending() uint16 {
	return c.env.StatusWord & ^c.env.ControlWord & flagBits
}

// statusWord derives the visible status word: the stored flags plus the
// exception summary bit.
func (c *Core) statusWord() uint16 {
	sw := c.env.StatusWord
	if c.pending() != 0 {
		sw |= summaryBit
	} else {
		sw &^= summaryBit
	}
	return sw
}

func (c *Core) ReadLegacyEnv() fpu.LegacyEnv {
	env := c.env
	env.StatusWord = c.statusWord()
	return env
}

func (c *Core) WriteLegacyEnv(env fpu.LegacyEnv) {
	c.env = env
}

func (c *Core) ReadControlWord() uint16 {
	return c.env.ControlWord
}

func (c *Core) WriteControlWord(cw uint16) {
	c.env.ControlWord = cw
}

func (c *Core) ReadStatusWord() uint16 {
	return c.statusWord()
}

func (c *Core) ReadMXCSR() uint32 {
	return c.mxcsr
}

func (c *Core) WriteMXCSR(v uint32) {
	c.mxcsr = v
}

// Wait delivers a pending unmasked exception the way the hardware wait
// instruction would: one delivery per synchronization point, handing the
// handler the full pending set. Without a handler the delivery is still
// counted, standing in for the process-fatal trap real hardware would take.
func (c *Core) Wait() {
	p := c.pending()
	if p == 0 {
		return
	}
	c.traps++
	if c.handler != nil {
		c.handler(fpu.Exception(p))
	}
}

var _ fpu.Registers = (*Core)(nil)
