package aes

import "aes256-go/pkg/gf"

// state is a block viewed as a column-major 4x4 matrix: state[r+4*c] is
// row r, column c.
type state = [BlockSize]byte

// substituter maps one byte through an S-box table.
type substituter func(table *[256]byte, b byte) byte

func tableLookup(table *[256]byte, b byte) byte { return table[b] }

func addRoundKey(s *state, rk *[BlockSize]byte) {
	for i := range s {
		s[i] ^= rk[i]
	}
}

func subBytes(s *state, sub substituter) {
	for i := range s {
		s[i] = sub(&sbox, s[i])
	}
}

func invSubBytes(s *state, sub substituter) {
	for i := range s {
		s[i] = sub(&invSbox, s[i])
	}
}

// shiftRows rotates row r left by r positions.
func shiftRows(s *state) {
	s[1], s[5], s[9], s[13] = s[5], s[9], s[13], s[1]
	s[2], s[6], s[10], s[14] = s[10], s[14], s[2], s[6]
	s[3], s[7], s[11], s[15] = s[15], s[3], s[7], s[11]
}

// invShiftRows rotates row r right by r positions.
func invShiftRows(s *state) {
	s[1], s[5], s[9], s[13] = s[13], s[1], s[5], s[9]
	s[2], s[6], s[10], s[14] = s[10], s[14], s[2], s[6]
	s[3], s[7], s[11], s[15] = s[7], s[11], s[15], s[3]
}

// mixColumns multiplies each column by the circulant matrix
// [02 03 01 01] over GF(2^8).
func mixColumns(s *state) {
	for c := 0; c < BlockSize; c += 4 {
		a0, a1, a2, a3 := s[c], s[c+1], s[c+2], s[c+3]
		t := a0 ^ a1 ^ a2 ^ a3
		s[c] = a0 ^ t ^ gf.Xtime(a0^a1)
		s[c+1] = a1 ^ t ^ gf.Xtime(a1^a2)
		s[c+2] = a2 ^ t ^ gf.Xtime(a2^a3)
		s[c+3] = a3 ^ t ^ gf.Xtime(a3^a0)
	}
}

// invMixColumns multiplies each column by [0e 0b 0d 09].
func invMixColumns(s *state) {
	for c := 0; c < BlockSize; c += 4 {
		a0, a1, a2, a3 := s[c], s[c+1], s[c+2], s[c+3]
		s[c] = gf.Mul(a0, 0x0e) ^ gf.Mul(a1, 0x0b) ^ gf.Mul(a2, 0x0d) ^ gf.Mul(a3, 0x09)
		s[c+1] = gf.Mul(a0, 0x09) ^ gf.Mul(a1, 0x0e) ^ gf.Mul(a2, 0x0b) ^ gf.Mul(a3, 0x0d)
		s[c+2] = gf.Mul(a0, 0x0d) ^ gf.Mul(a1, 0x09) ^ gf.Mul(a2, 0x0e) ^ gf.Mul(a3, 0x0b)
		s[c+3] = gf.Mul(a0, 0x0b) ^ gf.Mul(a1, 0x0d) ^ gf.Mul(a2, 0x09) ^ gf.Mul(a3, 0x0e)
	}
}
