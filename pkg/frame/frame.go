// Package frame packs an IV and its ciphertext into one transportable byte
// sequence, IV first.
package frame

import (
	"errors"
	"fmt"
)

// IVSize is the length of the IV prefix.
const IVSize = 16

var ErrTruncatedInput = errors.New("frame: input shorter than the IV prefix")

// Frame returns iv || ciphertext in a new slice.
func Frame(iv, ciphertext []byte) []byte {
	out := make([]byte, 0, len(iv)+len(ciphertext))
	out = append(out, iv...)
	return append(out, ciphertext...)
}

// Unframe splits b into its IV prefix and the remaining ciphertext. Both
// results alias b. The ciphertext length is not validated here.
func Unframe(b []byte) (iv, ciphertext []byte, err error) {
	if len(b) < IVSize {
		return nil, nil, fmt.Errorf("%w: got %d bytes", ErrTruncatedInput, len(b))
	}
	return b[:IVSize:IVSize], b[IVSize:], nil
}
