// Package aes implements the AES-256 block cipher (FIPS-197) from first
// principles: S-box construction over GF(2^8), the AES-256 key schedule and
// the 14-round block transform.
//
// The package deliberately does not import crypto/aes. A Cipher is immutable
// after NewCipher returns and may be shared between goroutines.
package aes

const (
	// BlockSize is the AES block size in bytes.
	BlockSize = 16
	// KeySize is the AES-256 key size in bytes.
	KeySize = 32
	// Rounds is the number of rounds for a 256-bit key.
	Rounds = 14

	nk = KeySize / 4       // key length in 32-bit words
	nb = BlockSize / 4     // block length in 32-bit words
	nw = nb * (Rounds + 1) // expanded key length in words
)
