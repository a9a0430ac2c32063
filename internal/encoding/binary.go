package encoding

import (
	"encoding/binary"
)

// FromBytes16 turns []byte (len 2) into a uint16
func FromBytes16(data []byte) uint16 {
	return binary.BigEndian.Uint16(data)
}

// Merge16 two uint16 to uint32
func Merge16(a, b uint16) uint32 {
	return (uint32(a) << 16) + uint32(b)
}

// Split32 uint32 to two uint16
func Split32(in uint32) (uint16, uint16) {
	return uint16(in >> 16), uint16(in)
}
