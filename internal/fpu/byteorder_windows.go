//go:build windows

package fpu

import "encoding/binary"

var byteOrder binary.ByteOrder = binary.LittleEndian
