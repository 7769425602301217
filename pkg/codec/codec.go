// Package codec is a small generic gob codec used for stored values.
package codec

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// Encode gob-encodes x.
func Encode[T any](x T) ([]byte, error) {
	var buffer bytes.Buffer
	if err := gob.NewEncoder(&buffer).Encode(x); err != nil {
		return nil, fmt.Errorf("error while encoding: %w", err)
	}
	return buffer.Bytes(), nil
}

// Decode gob-decodes data into a new T.
func Decode[T any](data []byte) (*T, error) {
	var x T
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&x); err != nil {
		return nil, fmt.Errorf("error while decoding: %w", err)
	}
	return &x, nil
}
