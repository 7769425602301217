package transform

import (
	"bytes"
	"encoding/base64"
	"fmt"
)

type base64Transform struct{ enc *base64.Encoding }

// NewBase64Transform encodes to padded standard base64 on Apply.
func NewBase64Transform() Transform {
	return &base64Transform{enc: base64.StdEncoding}
}

func (b *base64Transform) Apply(data []byte) ([]byte, error) {
	out := make([]byte, b.enc.EncodedLen(len(data)))
	b.enc.Encode(out, data)
	return out, nil
}

func (b *base64Transform) Reverse(data []byte) ([]byte, error) {
	data = bytes.TrimSpace(data)
	out := make([]byte, b.enc.DecodedLen(len(data)))
	n, err := b.enc.Decode(out, data)
	if err != nil {
		return nil, fmt.Errorf("base64 reverse (decode): %w", err)
	}
	return out[:n], nil
}
