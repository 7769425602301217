package aes

import (
	"crypto/subtle"

	"aes256-go/pkg/gf"
)

// Filled once by init and read-only afterwards.
var (
	sbox    [256]byte
	invSbox [256]byte
)

func init() {
	for i := 0; i < 256; i++ {
		s := affine(gf.Inverse(byte(i)))
		sbox[i] = s
		invSbox[s] = byte(i)
	}
}

// affine applies the FIPS-197 5.1.1 affine transform:
// b'_i = b_i ^ b_(i+4) ^ b_(i+5) ^ b_(i+6) ^ b_(i+7) ^ c_i with c = 0x63.
func affine(b byte) byte {
	return b ^ rotl8(b, 1) ^ rotl8(b, 2) ^ rotl8(b, 3) ^ rotl8(b, 4) ^ 0x63
}

func rotl8(b byte, n uint) byte {
	return b<<n | b>>(8-n)
}

// SubByte returns the forward S-box value for b.
func SubByte(b byte) byte { return sbox[b] }

// InvSubByte returns the inverse S-box value for b.
func InvSubByte(b byte) byte { return invSbox[b] }

// ctLookup reads table[idx] touching every entry, so the memory access
// pattern is independent of idx.
func ctLookup(table *[256]byte, idx byte) byte {
	var out byte
	for i := 0; i < 256; i++ {
		mask := byte(subtle.ConstantTimeByteEq(byte(i), idx)) * 0xFF
		out |= table[i] & mask
	}
	return out
}
