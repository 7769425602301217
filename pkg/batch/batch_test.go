package batch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"aes256-go"
	"aes256-go/pkg/transform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipeline(t *testing.T) *transform.Processor {
	t.Helper()
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i * 7)
	}
	eng, err := aes256.NewEngine(key)
	require.NoError(t, err)
	proc, err := transform.NewTextPipeline(eng, transform.CodecNone)
	require.NoError(t, err)
	return proc
}

func TestLinesRoundTripKeepsOrder(t *testing.T) {
	proc := pipeline(t)
	lines := make([]string, 200)
	for i := range lines {
		lines[i] = fmt.Sprintf("line number %d", i)
	}
	lines[17] = ""

	for _, workers := range []int{0, 1, 3, 16} {
		sealed, err := EncryptLines(context.Background(), proc, lines, workers)
		require.NoError(t, err)
		require.Len(t, sealed, len(lines))

		opened, err := DecryptLines(context.Background(), proc, sealed, workers)
		require.NoError(t, err)
		assert.Equal(t, lines, opened, "workers=%d", workers)
	}
}

func TestDecryptLinesReportsLine(t *testing.T) {
	proc := pipeline(t)
	sealed, err := EncryptLines(context.Background(), proc, []string{"a", "b", "c"}, 2)
	require.NoError(t, err)
	sealed[1] = "AAAA"

	_, err = DecryptLines(context.Background(), proc, sealed, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestCanceledContext(t *testing.T) {
	proc := pipeline(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := EncryptLines(ctx, proc, []string{"a", "b"}, 2)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestEmptyInput(t *testing.T) {
	out, err := EncryptLines(context.Background(), pipeline(t), nil, 4)
	require.NoError(t, err)
	assert.Empty(t, out)
}
