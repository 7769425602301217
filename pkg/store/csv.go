package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
)

var csvHeader = []string{"ID", "Label", "Plaintext", "Ciphertext", "CreatedAt"}

// CSVStore keeps records as rows of a single CSV file.
type CSVStore struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

// OpenCSV opens (or creates) the CSV file at path on fs. A nil fs means the
// OS filesystem.
func OpenCSV(fs afero.Fs, path string) (*CSVStore, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if path == "" {
		return nil, errors.New("store: csv path is empty")
	}
	s := &CSVStore{fs: fs, path: path}

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("store: stat %s: %w", path, err)
	}
	if !exists {
		if err := fs.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
		f, err := fs.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("store: create %s: %w", path, err)
		}
		w := csv.NewWriter(f)
		w.Write(csvHeader)
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, fmt.Errorf("store: write header: %w", err)
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *CSVStore) Put(ctx context.Context, r Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(r); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.fs.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("store: open %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{r.ID, r.Label, r.Plaintext, r.Ciphertext, r.CreatedAt.UTC().Format(time.RFC3339Nano)})
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("store: append record: %w", err)
	}
	return nil
}

func (s *CSVStore) Get(ctx context.Context, id string) (Record, error) {
	records, err := s.List(ctx)
	if err != nil {
		return Record{}, err
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return Record{}, ErrNotFound
}

func (s *CSVStore) List(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.fs.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", s.path, err)
	}
	defer f.Close()

	rd := csv.NewReader(f)
	rd.FieldsPerRecord = len(csvHeader)
	var out []Record
	for line := 0; ; line++ {
		row, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("store: read %s: %w", s.path, err)
		}
		if line == 0 {
			continue
		}
		created, err := time.Parse(time.RFC3339Nano, row[4])
		if err != nil {
			return nil, fmt.Errorf("store: line %d: bad timestamp: %w", line+1, err)
		}
		out = append(out, Record{ID: row[0], Label: row[1], Plaintext: row[2], Ciphertext: row[3], CreatedAt: created})
	}
	return out, nil
}

func (s *CSVStore) Close() error { return nil }
