package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aes256-go"
	"aes256-go/internal/fn"
	"aes256-go/pkg/store"
	"aes256-go/pkg/transform"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, withStore bool) (*Server, store.Store) {
	t.Helper()
	eng, err := aes256.NewEngine([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	proc, err := transform.NewTextPipeline(eng, transform.CodecNone)
	require.NoError(t, err)
	if !withStore {
		return NewServer(proc), nil
	}
	st, err := store.OpenCSV(afero.NewMemMapFs(), "/records.csv")
	require.NoError(t, err)
	return NewServer(proc, WithStore(st, true)), st
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Api.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, false)
	rec := do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestEncryptDecrypt(t *testing.T) {
	srv, _ := newTestServer(t, false)

	rec := do(t, srv, http.MethodPost, "/v1/encrypt", `{"plaintext":"attack at dawn"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var enc encryptResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &enc))
	assert.NotEmpty(t, enc.Ciphertext)
	assert.Empty(t, enc.ID)

	rec = do(t, srv, http.MethodPost, "/v1/decrypt", `{"ciphertext":"`+enc.Ciphertext+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var dec decryptResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dec))
	assert.Equal(t, "attack at dawn", dec.Plaintext)
}

func TestDecryptFailuresLookAlike(t *testing.T) {
	srv, _ := newTestServer(t, false)

	rec := do(t, srv, http.MethodPost, "/v1/encrypt", `{"plaintext":"x"}`)
	var enc encryptResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &enc))
	// char 20 holds the high bits of IV byte 15, which lands on the pad byte
	tampered := []byte(enc.Ciphertext)
	tampered[20] = "AB"[fn.T(tampered[20] == 'A', 1, 0)]

	var bodies []string
	for _, ct := range []string{"!!!", "AAAA", string(tampered)} {
		rec := do(t, srv, http.MethodPost, "/v1/decrypt", `{"ciphertext":"`+ct+`"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, ct)
		bodies = append(bodies, rec.Body.String())
	}
	for _, b := range bodies[1:] {
		assert.Equal(t, bodies[0], b)
	}
	assert.Contains(t, bodies[0], decryptFailedMsg)
}

func TestSaveAndFetchRecords(t *testing.T) {
	srv, _ := newTestServer(t, true)

	rec := do(t, srv, http.MethodPost, "/v1/encrypt", `{"plaintext":"secret","label":"note","save":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var enc encryptResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &enc))
	require.NotEmpty(t, enc.ID)

	rec = do(t, srv, http.MethodGet, "/v1/records/"+enc.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got recordView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "note", got.Label)
	assert.Equal(t, "secret", got.Plaintext)
	assert.Equal(t, enc.Ciphertext, got.Ciphertext)

	rec = do(t, srv, http.MethodGet, "/v1/records", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []recordView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = do(t, srv, http.MethodGet, "/v1/records/00000000-0000-4000-8000-000000000000", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveWithoutStore(t *testing.T) {
	srv, _ := newTestServer(t, false)
	rec := do(t, srv, http.MethodPost, "/v1/encrypt", `{"plaintext":"x","save":true}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = do(t, srv, http.MethodGet, "/v1/records", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
