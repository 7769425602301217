package transform

import (
	"errors"
	"fmt"

	"aes256-go"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Processor applies its transforms 0..N on the way out and N..0 on the way
// back in.
type Processor struct {
	transforms []Transform
}

// NewProcessor creates a processor with a defined pipeline.
// Requires at least one transform.
func NewProcessor(pipeline []Transform) (*Processor, error) {
	if len(pipeline) == 0 {
		return nil, errors.New("processor requires at least one transform")
	}
	s := make([]Transform, len(pipeline))
	copy(s, pipeline)
	return &Processor{transforms: s}, nil
}

// NewTextPipeline builds [codec] -> tag -> AES-256-CBC -> base64. The
// encrypted payload starts with one byte naming codec, so opening with a
// pipeline of another codec fails with ErrCodecMismatch instead of
// returning compressed bytes.
func NewTextPipeline(engine *aes256.Engine, codec string) (*Processor, error) {
	tag, err := newCodecTagTransform(codec)
	if err != nil {
		return nil, err
	}
	var pipeline []Transform
	switch codec {
	case CodecZstd:
		z, err := NewZstdTransform(zstd.SpeedDefault)
		if err != nil {
			return nil, err
		}
		pipeline = append(pipeline, z)
	case CodecGzip:
		g, err := NewGzipTransform(gzip.DefaultCompression)
		if err != nil {
			return nil, err
		}
		pipeline = append(pipeline, g)
	}
	pipeline = append(pipeline, tag, NewCBCTransform(engine), NewBase64Transform())
	return NewProcessor(pipeline)
}

// Seal applies the pipeline transformations in forward order (0..N).
func (p *Processor) Seal(payload []byte) ([]byte, error) {
	var err error
	current := payload
	for i, t := range p.transforms {
		current, err = t.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("seal: transform %d (%T) Apply failed: %w", i, t, err)
		}
	}
	return current, nil
}

// Open applies the pipeline transformations in reverse order (N..0).
func (p *Processor) Open(payload []byte) ([]byte, error) {
	var err error
	current := payload
	for i := len(p.transforms) - 1; i >= 0; i-- {
		t := p.transforms[i]
		current, err = t.Reverse(current)
		if err != nil {
			return nil, fmt.Errorf("open: transform %d (%T) Reverse failed: %w", i, t, err)
		}
	}
	return current, nil
}

// SealString and OpenString are text conveniences over Seal and Open.
func (p *Processor) SealString(s string) (string, error) {
	out, err := p.Seal([]byte(s))
	return string(out), err
}

func (p *Processor) OpenString(s string) (string, error) {
	out, err := p.Open([]byte(s))
	return string(out), err
}
