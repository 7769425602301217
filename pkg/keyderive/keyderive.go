// Package keyderive turns passphrases into 32-byte AES-256 keys. It lives
// outside the cipher core, which accepts only ready-made keys.
package keyderive

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// KeySize is the length of every derived key.
const KeySize = 32

const (
	MethodSHA256   = "sha256"
	MethodPBKDF2   = "pbkdf2"
	MethodArgon2id = "argon2id"
)

var (
	ErrUnknownMethod   = errors.New("keyderive: unknown method")
	ErrMissingSalt     = errors.New("keyderive: method requires a salt")
	ErrEmptyPassphrase = errors.New("keyderive: empty passphrase")
)

// Deriver derives a key from a passphrase.
type Deriver interface {
	DeriveKey(passphrase []byte) ([]byte, error)
}

// Params selects and tunes a Deriver. Zero tuning values fall back to the
// defaults below.
type Params struct {
	Method        string
	Salt          string
	Iterations    int
	Argon2Time    uint32
	Argon2Memory  uint32 // KiB
	Argon2Threads uint8
}

const (
	DefaultPBKDF2Iterations = 600_000
	DefaultArgon2Time       = 3
	DefaultArgon2Memory     = 64 * 1024
	DefaultArgon2Threads    = 4
)

// New returns the Deriver named by p.Method.
func New(p Params) (Deriver, error) {
	switch strings.ToLower(p.Method) {
	case "", MethodSHA256:
		return SHA256(), nil
	case MethodPBKDF2:
		if p.Salt == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingSalt, MethodPBKDF2)
		}
		iter := p.Iterations
		if iter <= 0 {
			iter = DefaultPBKDF2Iterations
		}
		return PBKDF2([]byte(p.Salt), iter), nil
	case MethodArgon2id:
		if p.Salt == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingSalt, MethodArgon2id)
		}
		t, m, th := p.Argon2Time, p.Argon2Memory, p.Argon2Threads
		if t == 0 {
			t = DefaultArgon2Time
		}
		if m == 0 {
			m = DefaultArgon2Memory
		}
		if th == 0 {
			th = DefaultArgon2Threads
		}
		return Argon2id([]byte(p.Salt), t, m, th), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, p.Method)
	}
}

type sha256Deriver struct{}

// SHA256 hashes the passphrase once. It has no salt and no work factor and
// exists for compatibility with data encrypted that way.
func SHA256() Deriver { return sha256Deriver{} }

func (sha256Deriver) DeriveKey(passphrase []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}
	key := sha256.Sum256(passphrase)
	return key[:], nil
}

type pbkdf2Deriver struct {
	salt       []byte
	iterations int
}

// PBKDF2 derives keys with PBKDF2-HMAC-SHA256.
func PBKDF2(salt []byte, iterations int) Deriver {
	return pbkdf2Deriver{salt: salt, iterations: iterations}
}

func (d pbkdf2Deriver) DeriveKey(passphrase []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}
	return pbkdf2.Key(passphrase, d.salt, d.iterations, KeySize, sha256.New), nil
}

type argon2Deriver struct {
	salt    []byte
	time    uint32
	memory  uint32
	threads uint8
}

// Argon2id derives keys with Argon2id. The salt is domain-separated first.
func Argon2id(salt []byte, time, memoryKiB uint32, threads uint8) Deriver {
	return argon2Deriver{salt: salt, time: time, memory: memoryKiB, threads: threads}
}

func (d argon2Deriver) DeriveKey(passphrase []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}
	h := sha256.New()
	h.Write([]byte("aes256-go\x00argon2id"))
	h.Write(d.salt)
	return argon2.IDKey(passphrase, h.Sum(nil), d.time, d.memory, d.threads, KeySize), nil
}
