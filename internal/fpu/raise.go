package fpu

// raiseOrder is the delivery priority when several exceptions are raised in
// one call. Raising each kind individually is the only way to get a
// deterministic handler order out of the x87 synchronization protocol
// (Intel SDM Vol. 1, 8.6 "X87 FPU Exception Synchronization").
var raiseOrder = [...]Exception{
	Invalid,
	DivByZero,
	Overflow,
	Underflow,
	Inexact,
	Denormal,
}

// RaiseExcept raises the requested exceptions one kind at a time, executing
// the synchronizing instruction after each so the processor actually
// delivers the trap rather than just latching a flag.
//
// The environment block is re-read for every kind: the handler invoked for
// an earlier kind may have rewritten the status word (typically to clear
// its flag), and those writes must survive into the next delivery.
//
// There is no synchronization scheme for SSE exceptions. The flag is still
// mirrored into MXCSR, but writing MXCSR alone does not guarantee a handler
// runs; this is a known limitation of the hardware, not of this layer.
func RaiseExcept(r Registers, e Exception) error {
	bits := statusBits(e)

	for _, kind := range raiseOrder {
		kb := statusBits(kind)
		if kb == 0 || bits&kb == 0 {
			continue
		}

		env := r.ReadLegacyEnv()
		env.StatusWord |= kb
		r.WriteLegacyEnv(env)

		mxcsr := r.ReadMXCSR()
		mxcsr |= uint32(kb)
		r.WriteMXCSR(mxcsr)

		r.Wait()
	}
	return nil
}
