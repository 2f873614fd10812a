package encoding

import (
	"encoding/binary"
)

// FromBytes8 turns a []byte into a uint8.
func FromBytes8(data []byte) uint8 {
	if len(data) == 1 {
		data = []byte{0x00, data[0]}
	}
	// there isn't a Uint8 function
	i16 := binary.BigEndian.Uint16(data)
	return uint8(i16)
}

// ToBytes8 turns uint8 into []byte of len 1 (eg. 8 bits)
func ToBytes8(in uint8) []byte {
	// uint8 is only one byte anyways right
	return []byte{in}
}

// Split16 uint16 to two uint8
func Split16(in uint16) (uint8, uint8) {
	return uint8(in >> 8), uint8(in)
}

// Merge8 two uint8 to uint16
func Merge8(a, b uint8) uint16 {
	return (uint16(a) << 8) + uint16(b)
}

// Bits reads the n bit wide field of x that starts at bit s.
func Bits(x uint8, s, n uint8) uint8 {
	return (x >> s) & (1<<n - 1)
}

// SetBits returns x with the n bit wide field starting at bit s
// replaced by v. Bits outside the field are untouched; bits of v
// beyond the field width are discarded.
func SetBits(x uint8, s, n, v uint8) uint8 {
	mask := uint8(1<<n-1) << s
	return x&^mask | v<<s&mask
}
