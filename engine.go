// Package aes256 ties the from-scratch AES-256 core together: one expanded
// key, CBC chaining with a random IV, PKCS#7 padding and IV-prefixed
// framing.
//
//	eng, err := aes256.NewEngine(key)
//	sealed, err := eng.Encrypt([]byte("hello"))
//	plain, err := eng.Decrypt(sealed)
package aes256

import (
	"errors"
	"io"

	"aes256-go/pkg/aes"
	"aes256-go/pkg/cbc"
	"aes256-go/pkg/frame"

	"github.com/rs/zerolog"
)

// ErrDecryptionFailed is the only error Decrypt reports for a well-formed
// input that does not decrypt, whatever the internal cause.
var ErrDecryptionFailed = errors.New("aes256: decryption failed")

// Engine encrypts and decrypts framed messages under one key. It is
// immutable and safe for concurrent use.
type Engine struct {
	mode   *cbc.Mode
	logger zerolog.Logger
}

type engineOptions struct {
	rand     io.Reader
	hardened bool
	logger   zerolog.Logger
}

// Option configures an Engine.
type Option func(*engineOptions)

// WithRandom sets the IV source. It must be cryptographically secure.
func WithRandom(r io.Reader) Option {
	return func(o *engineOptions) { o.rand = r }
}

// WithHardening enables constant-time S-box substitution.
func WithHardening() Option {
	return func(o *engineOptions) { o.hardened = true }
}

// WithLogger sets the logger used for debug events.
func WithLogger(l zerolog.Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

// NewEngine expands key, which must be 32 bytes.
func NewEngine(key []byte, opts ...Option) (*Engine, error) {
	o := engineOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	var cipherOpts []aes.Option
	if o.hardened {
		cipherOpts = append(cipherOpts, aes.WithConstantTimeSubstitution())
	}
	block, err := aes.NewCipher(key, cipherOpts...)
	if err != nil {
		return nil, err
	}
	return &Engine{
		mode:   cbc.New(block, o.rand),
		logger: o.logger.With().Str("component", "engine").Logger(),
	}, nil
}

// Encrypt returns IV || ciphertext for plaintext.
func (e *Engine) Encrypt(plaintext []byte) ([]byte, error) {
	iv, ct, err := e.mode.Encrypt(plaintext)
	if err != nil {
		e.logger.Error().Err(err).Msg("encrypt failed")
		return nil, err
	}
	e.logger.Debug().Int("plaintext_len", len(plaintext)).Int("ciphertext_len", len(ct)).Msg("encrypted")
	return frame.Frame(iv, ct), nil
}

// Decrypt reverses Encrypt. Inputs too short to hold an IV fail with
// frame.ErrTruncatedInput, and bodies that are not a positive multiple of
// the block size fail with cbc.ErrInvalidCiphertextLength. Every other
// failure is reported as ErrDecryptionFailed.
func (e *Engine) Decrypt(framed []byte) ([]byte, error) {
	iv, ct, err := frame.Unframe(framed)
	if err != nil {
		return nil, err
	}
	if len(ct) == 0 || len(ct)%cbc.BlockSize != 0 {
		return nil, cbc.ErrInvalidCiphertextLength
	}
	pt, err := e.mode.Decrypt(iv, ct)
	if err != nil {
		e.logger.Debug().Err(err).Int("ciphertext_len", len(ct)).Msg("decrypt rejected")
		return nil, ErrDecryptionFailed
	}
	return pt, nil
}
