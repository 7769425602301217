package transform

import (
	"errors"
	"fmt"
)

// Codec names the compression applied before encryption.
const (
	CodecNone = "none"
	CodecGzip = "gzip"
	CodecZstd = "zstd"
)

// ErrCodecMismatch means the payload was sealed with a different codec than
// the pipeline opening it.
var ErrCodecMismatch = errors.New("transform: payload codec does not match pipeline")

var codecTags = map[string]byte{
	CodecNone: 0x00,
	CodecGzip: 0x01,
	CodecZstd: 0x02,
}

// ValidCodec reports whether name is a known codec.
func ValidCodec(name string) bool {
	_, ok := codecTags[name]
	return ok
}

// codecTagTransform prefixes one tag byte naming the codec. It sits just
// inside the encryption stage, so a mismatch is caught after decryption and
// before decompression.
type codecTagTransform struct {
	name string
	tag  byte
}

func newCodecTagTransform(name string) (Transform, error) {
	tag, ok := codecTags[name]
	if !ok {
		return nil, fmt.Errorf("transform: unknown codec %q", name)
	}
	return &codecTagTransform{name: name, tag: tag}, nil
}

func (c *codecTagTransform) Apply(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data)+1)
	out = append(out, c.tag)
	return append(out, data...), nil
}

func (c *codecTagTransform) Reverse(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: missing codec tag", ErrCodecMismatch)
	}
	if data[0] != c.tag {
		return nil, fmt.Errorf("%w: got tag 0x%02x, want %s", ErrCodecMismatch, data[0], c.name)
	}
	return data[1:], nil
}
