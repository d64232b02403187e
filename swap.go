package glxvnd

import "math/bits"

// Swap32 reverses the bytes of a 32-bit protocol field. The transform is
// involutive: Swap32(Swap32(x)) == x.
func Swap32(v uint32) uint32 {
	return bits.ReverseBytes32(v)
}

// Swap16 reverses the bytes of a 16-bit protocol field.
func Swap16(v uint16) uint16 {
	return bits.ReverseBytes16(v)
}

// CheckSwap returns v converted between client and server byte order when
// the client's recorded order differs from the server's native order.
// Because the byte reversal is involutive, the same call serves both
// directions: reading a request field and writing a reply field.
func CheckSwap(cl Client, v uint32) uint32 {
	if cl.Swapped() {
		return Swap32(v)
	}
	return v
}
