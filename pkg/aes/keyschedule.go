package aes

import (
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"math/bits"
)

// RoundKeySet holds the 15 round keys of an expanded AES-256 key. Round 0 is
// the first half of the original key material. Each round key is laid out
// in the same column-major byte order as a block.
type RoundKeySet struct {
	keys [Rounds + 1][BlockSize]byte
}

// rcon holds the round constants x^(i-1) in GF(2^8), i = 1..7.
var rcon = [...]uint32{0x01000000, 0x02000000, 0x04000000, 0x08000000, 0x10000000, 0x20000000, 0x40000000}

// ExpandKey runs the AES-256 key schedule over a 32-byte key.
func ExpandKey(key []byte) (*RoundKeySet, error) {
	return expandKey(key, tableLookup)
}

// expandKey is ExpandKey with SubWord routed through sub.
func expandKey(key []byte, sub substituter) (*RoundKeySet, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKeyLength, len(key))
	}

	var w [nw]uint32
	for i := 0; i < nk; i++ {
		w[i] = binary.BigEndian.Uint32(key[4*i:])
	}
	for i := nk; i < nw; i++ {
		t := w[i-1]
		switch i % nk {
		case 0:
			t = subWord(bits.RotateLeft32(t, 8), sub) ^ rcon[i/nk-1]
		case 4:
			t = subWord(t, sub)
		}
		w[i] = w[i-nk] ^ t
	}

	rks := &RoundKeySet{}
	for r := 0; r <= Rounds; r++ {
		for c := 0; c < nb; c++ {
			binary.BigEndian.PutUint32(rks.keys[r][4*c:], w[r*nb+c])
		}
	}
	return rks, nil
}

func subWord(w uint32, sub substituter) uint32 {
	return uint32(sub(&sbox, byte(w>>24)))<<24 |
		uint32(sub(&sbox, byte(w>>16)))<<16 |
		uint32(sub(&sbox, byte(w>>8)))<<8 |
		uint32(sub(&sbox, byte(w)))
}

// Round returns a copy of round key r.
func (k *RoundKeySet) Round(r int) [BlockSize]byte {
	return k.keys[r]
}

// Word returns expanded key word i (0 <= i < 60).
func (k *RoundKeySet) Word(i int) uint32 {
	return binary.BigEndian.Uint32(k.keys[i/nb][4*(i%nb):])
}

// Equal reports whether both sets hold the same round keys, in constant time.
func (k *RoundKeySet) Equal(other *RoundKeySet) bool {
	if k == nil || other == nil {
		return k == other
	}
	eq := 1
	for r := range k.keys {
		eq &= subtle.ConstantTimeCompare(k.keys[r][:], other.keys[r][:])
	}
	return eq == 1
}

