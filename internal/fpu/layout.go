package fpu

// LayoutKind identifies one of the three snapshot binary layouts. The
// platform's native layout is fixed at build time (see the snapshot_* files)
// but all three codecs are compiled everywhere so snapshots can be
// inspected and tested off-platform.
type LayoutKind uint32

const (
	LayoutGeneric LayoutKind = 1 // 28-byte x87 environment block + MXCSR
	LayoutApple   LayoutKind = 2 // compacted 16-bit words + MXCSR + padding
	LayoutWindows LayoutKind = 3 // 32-bit control/status words, MXCSR transposed
)

func (k LayoutKind) String() string {
	switch k {
	case LayoutGeneric:
		return "generic"
	case LayoutApple:
		return "apple"
	case LayoutWindows:
		return "windows"
	default:
		return "unknown"
	}
}

// Size returns the snapshot size of the layout in bytes, matching the
// platform's public environment-state type exactly.
func (k LayoutKind) Size() int {
	switch k {
	case LayoutGeneric:
		return 32
	case LayoutApple:
		return 16
	case LayoutWindows:
		return 8
	default:
		return 0
	}
}

func encodeLegacyEnv(b []byte, env LegacyEnv) {
	byteOrder.PutUint16(b[0:], env.ControlWord)
	byteOrder.PutUint16(b[2:], env.Pad1)
	byteOrder.PutUint16(b[4:], env.StatusWord)
	byteOrder.PutUint16(b[6:], env.Pad2)
	for i, w := range env.Private {
		byteOrder.PutUint32(b[8+4*i:], w)
	}
}

func decodeLegacyEnv(b []byte) LegacyEnv {
	env := LegacyEnv{
		ControlWord: byteOrder.Uint16(b[0:]),
		Pad1:        byteOrder.Uint16(b[2:]),
		StatusWord:  byteOrder.Uint16(b[4:]),
		Pad2:        byteOrder.Uint16(b[6:]),
	}
	for i := range env.Private {
		env.Private[i] = byteOrder.Uint32(b[8+4*i:])
	}
	return env
}

// encodeGenericSnapshot stores the verbatim x87 environment block followed
// by MXCSR, the glibc fenv_t layout.
func encodeGenericSnapshot(b []byte, env LegacyEnv, mxcsr uint32) {
	encodeLegacyEnv(b, env)
	byteOrder.PutUint32(b[28:], mxcsr)
}

func decodeGenericSnapshot(b []byte) (LegacyEnv, uint32) {
	return decodeLegacyEnv(b), byteOrder.Uint32(b[28:])
}

// encodeAppleSnapshot stores the compacted Darwin fenv_t layout: 16-bit
// control and status words, MXCSR, then reserved padding.
func encodeAppleSnapshot(b []byte, env LegacyEnv, mxcsr uint32) {
	byteOrder.PutUint16(b[0:], env.ControlWord)
	byteOrder.PutUint16(b[2:], env.StatusWord)
	byteOrder.PutUint32(b[4:], mxcsr)
	for i := 8; i < 16; i++ {
		b[i] = 0
	}
}

func decodeAppleSnapshot(b []byte) (control, status uint16, mxcsr uint32) {
	return byteOrder.Uint16(b[0:]),
		byteOrder.Uint16(b[2:]),
		byteOrder.Uint32(b[4:])
}

// The Windows fenv_t carries a single 32-bit control word and a single
// 32-bit status word. The exception fields sit in almost reverse order
// relative to MXCSR (denormal and invalid keep their relative order), mask
// bits keep the hardware's inverted polarity, and every control field is
// duplicated into the high byte, which is the source of truth on restore.
const (
	winInexact   = 0x01
	winUnderflow = 0x02
	winOverflow  = 0x04
	winDivByZero = 0x08
	winInvalid   = 0x10
	winDenormal  = 0x20

	winHighShift = 24

	winHighInexact   = winInexact << winHighShift
	winHighUnderflow = winUnderflow << winHighShift
	winHighOverflow  = winOverflow << winHighShift
	winHighDivByZero = winDivByZero << winHighShift
	winHighInvalid   = winInvalid << winHighShift
	winHighDenormal  = winDenormal << winHighShift
)

// windowsWords transposes MXCSR into the Windows control and status words.
// The Windows fenv_t has no room for x87 state, so MXCSR is the only input.
//
// Control word: masks in bits 0-5 and 24-29, rounding in bits 8-9 and
// 30-31, flush-to-zero in bit 10, and denormals-are-zero XOR flush-to-zero
// in bit 11. Status word: flags in bits 0-5 and 24-29.
func windowsWords(mxcsr uint32) (control, status uint32) {
	status |= (mxcsr & uint32(Invalid|Denormal)) << 4
	status |= (mxcsr & uint32(DivByZero)) << 1
	status |= (mxcsr & uint32(Overflow)) >> 1
	status |= (mxcsr & uint32(Underflow)) >> 3
	status |= (mxcsr & uint32(Inexact)) >> 5
	status |= status << winHighShift

	control |= (mxcsr & (uint32(Invalid|Denormal) << mxcsrMaskShift)) >> 3
	control |= (mxcsr & (uint32(DivByZero) << mxcsrMaskShift)) >> 6
	control |= (mxcsr & (uint32(Overflow) << mxcsrMaskShift)) >> 8
	control |= (mxcsr & (uint32(Underflow) << mxcsrMaskShift)) >> 10
	control |= (mxcsr & (uint32(Inexact) << mxcsrMaskShift)) >> 12
	control |= control << winHighShift

	control |= (mxcsr & 0x6000) >> 5
	control |= (mxcsr & 0x6000) << 17

	control |= (mxcsr & 0x8000) >> 5
	control |= (((mxcsr & 0x8000) >> 9) ^ (mxcsr & 0x0040)) << 5

	return control, status
}

// windowsMXCSR performs the inverse transposition, reading the duplicated
// high-byte fields of the control and status words.
func windowsMXCSR(control, status uint32) uint32 {
	var mxcsr uint32

	mxcsr |= (status & (winHighDenormal | winHighInvalid)) >> 28
	mxcsr |= (status & winHighDivByZero) >> 25
	mxcsr |= (status & winHighOverflow) >> 23
	mxcsr |= (status & winHighUnderflow) >> 21
	mxcsr |= (status & winHighInexact) >> 19

	mxcsr |= (((control & 0x800) >> 1) ^ (control & 0x400)) >> 4

	mxcsr |= (control & (winHighDenormal | winHighInvalid)) >> 21
	mxcsr |= (control & winHighDivByZero) >> 18
	mxcsr |= (control & winHighOverflow) >> 16
	mxcsr |= (control & winHighUnderflow) >> 14
	mxcsr |= (control & winHighInexact) >> 12

	mxcsr |= (control & 0xc0000000) >> 17
	mxcsr |= (control & 0x400) << 5

	return mxcsr
}

// encodeWindowsSnapshot stores the transposed control and status words.
func encodeWindowsSnapshot(b []byte, mxcsr uint32) {
	control, status := windowsWords(mxcsr)
	byteOrder.PutUint32(b[0:], control)
	byteOrder.PutUint32(b[4:], status)
}

func decodeWindowsSnapshot(b []byte) uint32 {
	control := byteOrder.Uint32(b[0:])
	status := byteOrder.Uint32(b[4:])
	return windowsMXCSR(control, status)
}
