//go:build !windows

package fpu

import (
	"encoding/binary"

	"gvisor.dev/gvisor/pkg/hostarch"
)

// byteOrder is the byte order of the snapshot codecs. hostarch does not
// build on windows, which instead fixes binary.LittleEndian directly; the
// two agree on every supported target.
var byteOrder binary.ByteOrder = hostarch.ByteOrder
