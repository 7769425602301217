package aes

import "fmt"

// Cipher is an AES-256 instance bound to one expanded key.
type Cipher struct {
	rk  RoundKeySet
	sub substituter
}

// Option configures a Cipher.
type Option func(*Cipher)

// WithConstantTimeSubstitution makes S-box lookups, in the rounds and in
// the key schedule, scan the whole table so that memory access does not
// depend on key or state bytes. It is roughly two
// orders of magnitude slower than plain table lookups.
func WithConstantTimeSubstitution() Option {
	return func(c *Cipher) { c.sub = ctLookup }
}

// NewCipher expands key and returns a Cipher ready for block operations.
// The key schedule uses the same substitution as the rounds.
func NewCipher(key []byte, opts ...Option) (*Cipher, error) {
	c := &Cipher{sub: tableLookup}
	for _, opt := range opts {
		opt(c)
	}
	rks, err := expandKey(key, c.sub)
	if err != nil {
		return nil, err
	}
	c.rk = *rks
	return c, nil
}

// BlockSize returns the block size in bytes.
func (c *Cipher) BlockSize() int { return BlockSize }

// EncryptBlock encrypts exactly one block from src into dst.
// dst and src may overlap entirely.
func (c *Cipher) EncryptBlock(dst, src []byte) error {
	if len(src) != BlockSize || len(dst) != BlockSize {
		return fmt.Errorf("%w: src %d, dst %d", ErrInvalidBlockSize, len(src), len(dst))
	}
	var s state
	copy(s[:], src)
	c.encrypt(&s)
	copy(dst, s[:])
	return nil
}

// DecryptBlock decrypts exactly one block from src into dst.
// dst and src may overlap entirely.
func (c *Cipher) DecryptBlock(dst, src []byte) error {
	if len(src) != BlockSize || len(dst) != BlockSize {
		return fmt.Errorf("%w: src %d, dst %d", ErrInvalidBlockSize, len(src), len(dst))
	}
	var s state
	copy(s[:], src)
	c.decrypt(&s)
	copy(dst, s[:])
	return nil
}

// Encrypt encrypts the first block of src into dst, in the shape of
// crypto/cipher.Block. It panics if either slice is shorter than a block.
func (c *Cipher) Encrypt(dst, src []byte) {
	if len(src) < BlockSize || len(dst) < BlockSize {
		panic("aes: input not full block")
	}
	if err := c.EncryptBlock(dst[:BlockSize], src[:BlockSize]); err != nil {
		panic(err)
	}
}

// Decrypt decrypts the first block of src into dst, in the shape of
// crypto/cipher.Block. It panics if either slice is shorter than a block.
func (c *Cipher) Decrypt(dst, src []byte) {
	if len(src) < BlockSize || len(dst) < BlockSize {
		panic("aes: input not full block")
	}
	if err := c.DecryptBlock(dst[:BlockSize], src[:BlockSize]); err != nil {
		panic(err)
	}
}

func (c *Cipher) encrypt(s *state) {
	addRoundKey(s, &c.rk.keys[0])
	for r := 1; r < Rounds; r++ {
		subBytes(s, c.sub)
		shiftRows(s)
		mixColumns(s)
		addRoundKey(s, &c.rk.keys[r])
	}
	// Final round has no MixColumns.
	subBytes(s, c.sub)
	shiftRows(s)
	addRoundKey(s, &c.rk.keys[Rounds])
}

func (c *Cipher) decrypt(s *state) {
	addRoundKey(s, &c.rk.keys[Rounds])
	invShiftRows(s)
	invSubBytes(s, c.sub)
	for r := Rounds - 1; r > 0; r-- {
		addRoundKey(s, &c.rk.keys[r])
		invMixColumns(s)
		invShiftRows(s)
		invSubBytes(s, c.sub)
	}
	addRoundKey(s, &c.rk.keys[0])
}
