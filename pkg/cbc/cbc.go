// Package cbc implements cipher block chaining over a 16-byte block cipher,
// with PKCS#7 padding and a fresh random IV per encryption.
package cbc

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"aes256-go/pkg/padding"
)

// BlockSize is the chaining unit and IV length in bytes.
const BlockSize = 16

var (
	ErrInvalidCiphertextLength = errors.New("cbc: ciphertext length is not a positive multiple of the block size")
	ErrInvalidIVSize           = errors.New("cbc: IV must be 16 bytes")
	ErrRandomSource            = errors.New("cbc: failed to read IV from random source")
)

// Block is a 16-byte block cipher. *aes.Cipher satisfies it.
type Block interface {
	EncryptBlock(dst, src []byte) error
	DecryptBlock(dst, src []byte) error
}

// Mode chains a Block across messages. It holds no per-message state and is
// safe for concurrent use when the Block and random source are.
type Mode struct {
	block Block
	rand  io.Reader
}

// New returns a Mode over block. A nil rand selects crypto/rand.Reader.
func New(block Block, rand io.Reader) *Mode {
	return &Mode{block: block, rand: rand}
}

func (m *Mode) random() io.Reader {
	if m.rand == nil {
		return rand.Reader
	}
	return m.rand
}

// Encrypt pads plaintext and encrypts it under a freshly generated IV.
func (m *Mode) Encrypt(plaintext []byte) (iv, ciphertext []byte, err error) {
	iv = make([]byte, BlockSize)
	if _, err := io.ReadFull(m.random(), iv); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrRandomSource, err)
	}
	ciphertext, err = m.EncryptWithIV(iv, plaintext)
	if err != nil {
		return nil, nil, err
	}
	return iv, ciphertext, nil
}

// EncryptWithIV pads plaintext and encrypts it under the given IV. Reusing
// an IV with the same key breaks confidentiality; prefer Encrypt.
func (m *Mode) EncryptWithIV(iv, plaintext []byte) ([]byte, error) {
	return m.EncryptBlocks(iv, padding.Pad(plaintext, BlockSize))
}

// Decrypt reverses Encrypt and strips the padding.
func (m *Mode) Decrypt(iv, ciphertext []byte) ([]byte, error) {
	padded, err := m.DecryptBlocks(iv, ciphertext)
	if err != nil {
		return nil, err
	}
	return padding.Unpad(padded, BlockSize)
}

// EncryptBlocks chains src, which must be a positive multiple of the block
// size, without adding padding.
func (m *Mode) EncryptBlocks(iv, src []byte) ([]byte, error) {
	if err := checkInput(iv, src); err != nil {
		return nil, err
	}
	out := make([]byte, len(src))
	var chain [BlockSize]byte
	copy(chain[:], iv)
	for off := 0; off < len(src); off += BlockSize {
		var blk [BlockSize]byte
		for i := range blk {
			blk[i] = src[off+i] ^ chain[i]
		}
		if err := m.block.EncryptBlock(chain[:], blk[:]); err != nil {
			return nil, err
		}
		copy(out[off:], chain[:])
	}
	return out, nil
}

// DecryptBlocks reverses EncryptBlocks without touching padding.
func (m *Mode) DecryptBlocks(iv, src []byte) ([]byte, error) {
	if err := checkInput(iv, src); err != nil {
		return nil, err
	}
	out := make([]byte, len(src))
	var chain [BlockSize]byte
	copy(chain[:], iv)
	for off := 0; off < len(src); off += BlockSize {
		var blk [BlockSize]byte
		if err := m.block.DecryptBlock(blk[:], src[off:off+BlockSize]); err != nil {
			return nil, err
		}
		for i := range blk {
			out[off+i] = blk[i] ^ chain[i]
		}
		// Chain on the ciphertext block, not the recovered plaintext.
		copy(chain[:], src[off:off+BlockSize])
	}
	return out, nil
}

func checkInput(iv, src []byte) error {
	if len(iv) != BlockSize {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidIVSize, len(iv))
	}
	if len(src) == 0 || len(src)%BlockSize != 0 {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidCiphertextLength, len(src))
	}
	return nil
}
