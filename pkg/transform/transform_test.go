package transform

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"aes256-go"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *aes256.Engine {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	eng, err := aes256.NewEngine(key)
	require.NoError(t, err)
	return eng
}

func TestProcessorRequiresTransforms(t *testing.T) {
	_, err := NewProcessor(nil)
	require.Error(t, err)
	_, err = NewProcessor([]Transform{})
	require.Error(t, err)
}

var codecs = []string{CodecNone, CodecGzip, CodecZstd}

func TestTextPipelineRoundTrip(t *testing.T) {
	eng := newEngine(t)
	for _, codec := range codecs {
		p, err := NewTextPipeline(eng, codec)
		require.NoError(t, err)

		for _, msg := range []string{"", "hello world", string(bytes.Repeat([]byte("abc"), 5000))} {
			sealed, err := p.SealString(msg)
			require.NoError(t, err)
			_, err = base64.StdEncoding.DecodeString(sealed)
			require.NoError(t, err, "sealed output must be valid base64")

			opened, err := p.OpenString(sealed)
			require.NoError(t, err)
			assert.Equal(t, msg, opened, "codec=%s", codec)
		}
	}
}

func TestTextPipelineUncompressedFormat(t *testing.T) {
	eng := newEngine(t)
	p, err := NewTextPipeline(eng, CodecNone)
	require.NoError(t, err)

	sealed, err := p.SealString("original format")
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(sealed)
	require.NoError(t, err)

	// base64(IV || ciphertext) decrypts to the codec tag then the plaintext.
	plain, err := eng.Decrypt(raw)
	require.NoError(t, err)
	assert.Equal(t, "\x00original format", string(plain))
}

func TestTextPipelineRejectsCodecMismatch(t *testing.T) {
	eng := newEngine(t)
	msg := string(bytes.Repeat([]byte("compressible "), 100))
	for _, sealWith := range codecs {
		sealer, err := NewTextPipeline(eng, sealWith)
		require.NoError(t, err)
		sealed, err := sealer.SealString(msg)
		require.NoError(t, err)

		for _, openWith := range codecs {
			if openWith == sealWith {
				continue
			}
			opener, err := NewTextPipeline(eng, openWith)
			require.NoError(t, err)
			opened, err := opener.OpenString(sealed)
			require.ErrorIs(t, err, ErrCodecMismatch, "sealed %s, opened %s", sealWith, openWith)
			assert.Empty(t, opened)
		}
	}
}

func TestTextPipelineUnknownCodec(t *testing.T) {
	_, err := NewTextPipeline(newEngine(t), "lz4")
	require.Error(t, err)
	assert.False(t, ValidCodec("lz4"))
	for _, c := range codecs {
		assert.True(t, ValidCodec(c))
	}
}

func TestCodecTagRejectsEmptyPayload(t *testing.T) {
	tag, err := newCodecTagTransform(CodecNone)
	require.NoError(t, err)
	_, err = tag.Reverse(nil)
	require.ErrorIs(t, err, ErrCodecMismatch)
}

func TestPipelineOrder(t *testing.T) {
	eng := newEngine(t)
	z, err := NewZstdTransform(zstd.SpeedFastest)
	require.NoError(t, err)
	g, err := NewGzipTransform(gzip.BestSpeed)
	require.NoError(t, err)
	p, err := NewProcessor([]Transform{g, z, NewCBCTransform(eng), NewBase64Transform()})
	require.NoError(t, err)

	msg := bytes.Repeat([]byte("pipeline "), 200)
	sealed, err := p.Seal(msg)
	require.NoError(t, err)
	opened, err := p.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, msg, opened)
}

func TestOpenRejectsGarbage(t *testing.T) {
	eng := newEngine(t)
	p, err := NewTextPipeline(eng, CodecNone)
	require.NoError(t, err)

	_, err = p.OpenString("not base64 at all!")
	assert.Error(t, err)

	_, err = p.OpenString(base64.StdEncoding.EncodeToString(make([]byte, 10)))
	assert.Error(t, err)

	other, err := NewTextPipeline(newEngine(t), CodecNone)
	require.NoError(t, err)
	sealed, err := other.SealString("for someone else")
	require.NoError(t, err)
	if opened, err := p.OpenString(sealed); err == nil {
		// Valid padding under the wrong key is possible but must not
		// reproduce the plaintext.
		assert.NotEqual(t, "for someone else", opened)
	}
}

func TestGzipRejectsBadLevel(t *testing.T) {
	_, err := NewGzipTransform(42)
	require.Error(t, err)
}
