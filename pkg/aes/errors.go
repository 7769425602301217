package aes

import "errors"

var (
	ErrInvalidKeyLength = errors.New("aes: invalid key length, must be 32 bytes")
	ErrInvalidBlockSize = errors.New("aes: invalid block size, must be 16 bytes")
)
