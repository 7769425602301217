// Package store persists encrypted records. Backends: csv, sqlite, bolt.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const (
	DriverCSV    = "csv"
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

var (
	ErrNotFound      = errors.New("store: record not found")
	ErrUnknownDriver = errors.New("store: unknown driver")
)

// Record is one encrypted entry. Plaintext is empty unless the caller opted
// in to keeping it.
type Record struct {
	ID         string
	Label      string
	Plaintext  string
	Ciphertext string
	CreatedAt  time.Time
}

// NewRecord returns a Record with a fresh ID and the current time.
func NewRecord(label, plaintext, ciphertext string) Record {
	return Record{
		ID:         uuid.NewString(),
		Label:      label,
		Plaintext:  plaintext,
		Ciphertext: ciphertext,
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
}

// Store is a record repository. List returns records oldest first.
type Store interface {
	Put(ctx context.Context, r Record) error
	Get(ctx context.Context, id string) (Record, error)
	List(ctx context.Context) ([]Record, error)
	Close() error
}

// Open opens the backend named by driver at path.
func Open(driver, path string) (Store, error) {
	if driver == DriverSQLite || driver == DriverBolt {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
	}
	switch driver {
	case DriverCSV:
		return OpenCSV(nil, path)
	case DriverSQLite:
		return OpenSQLite(path)
	case DriverBolt:
		return OpenBolt(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

func validate(r Record) error {
	if _, err := uuid.Parse(r.ID); err != nil {
		return fmt.Errorf("store: invalid record id %q: %w", r.ID, err)
	}
	if r.Ciphertext == "" {
		return errors.New("store: record has no ciphertext")
	}
	return nil
}
