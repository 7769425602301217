// Package gf implements arithmetic in GF(2^8) with the AES reduction
// polynomial x^8 + x^4 + x^3 + x + 1 (0x11B).
//
// All functions are total over the byte domain and run a fixed number of
// iterations regardless of operand values.
package gf

// Poly is the reduction polynomial without its x^8 term.
const Poly = 0x1B

// Add adds two field elements (bitwise XOR).
func Add(a, b byte) byte {
	return a ^ b
}

// Xtime multiplies a by x, reducing modulo Poly when the high bit carries out.
func Xtime(a byte) byte {
	// mask is 0xFF when the high bit is set, 0x00 otherwise.
	mask := byte(0 - (a >> 7))
	return (a << 1) ^ (Poly & mask)
}

// Mul multiplies two field elements.
func Mul(a, b byte) byte {
	var result byte
	for i := 0; i < 8; i++ {
		result ^= a & byte(0-(b&1))
		a = Xtime(a)
		b >>= 1
	}
	return result
}

// Inverse returns the multiplicative inverse of a, computed as a^254.
// Inverse(0) is 0 by convention.
func Inverse(a byte) byte {
	// 254 = 0b11111110: square-and-multiply over a fixed chain.
	x2 := Mul(a, a)      // a^2
	x3 := Mul(x2, a)     // a^3
	x6 := Mul(x3, x3)    // a^6
	x12 := Mul(x6, x6)   // a^12
	x15 := Mul(x12, x3)  // a^15
	x30 := Mul(x15, x15) // a^30
	x60 := Mul(x30, x30)
	x120 := Mul(x60, x60)
	x127 := Mul(x120, Mul(x6, a)) // a^127
	return Mul(x127, x127)        // a^254
}
