// Package padding implements PKCS#7 padding with strict validation.
package padding

import (
	"bytes"
	"crypto/subtle"
	"errors"
	"fmt"
)

var ErrInvalidPadding = errors.New("padding: invalid PKCS#7 padding")

// Pad returns a copy of data followed by N bytes of value N, where
// N = blockSize - len(data)%blockSize. Aligned input gains a full block.
// blockSize must be in [1, 255].
func Pad(data []byte, blockSize int) []byte {
	if blockSize < 1 || blockSize > 255 {
		panic(fmt.Sprintf("padding: invalid block size %d", blockSize))
	}
	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data), len(data)+n)
	copy(out, data)
	return append(out, bytes.Repeat([]byte{byte(n)}, n)...)
}

// Unpad strips PKCS#7 padding from data. The returned slice aliases data.
//
// The whole final block is inspected regardless of the pad value, so the
// time taken does not reveal where validation failed.
func Unpad(data []byte, blockSize int) ([]byte, error) {
	if blockSize < 1 || blockSize > 255 {
		panic(fmt.Sprintf("padding: invalid block size %d", blockSize))
	}
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrInvalidPadding
	}

	n := int(data[len(data)-1])
	good := subtle.ConstantTimeLessOrEq(1, n) & subtle.ConstantTimeLessOrEq(n, blockSize)

	tail := data[len(data)-blockSize:]
	for i := 0; i < blockSize; i++ {
		// Byte at distance d from the end is padding when d <= n.
		d := blockSize - i
		inPad := subtle.ConstantTimeLessOrEq(d, n)
		match := subtle.ConstantTimeByteEq(tail[i], byte(n))
		// Outside the pad every byte passes; inside it must equal n.
		good &= match | (inPad ^ 1)
	}

	if good != 1 {
		return nil, ErrInvalidPadding
	}
	return data[:len(data)-n], nil
}
