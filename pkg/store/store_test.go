package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	csvStore, err := OpenCSV(afero.NewMemMapFs(), "/records.csv")
	require.NoError(t, err)
	sqliteStore, err := OpenSQLite(filepath.Join(dir, "records.db"))
	require.NoError(t, err)
	boltStore, err := OpenBolt(filepath.Join(dir, "records.bolt"))
	require.NoError(t, err)

	all := map[string]Store{
		DriverCSV:    csvStore,
		DriverSQLite: sqliteStore,
		DriverBolt:   boltStore,
	}
	t.Cleanup(func() {
		for _, s := range all {
			s.Close()
		}
	})
	return all
}

func TestStorePutGetList(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			first := NewRecord("first", "", "Y2lwaGVyLTE=")
			second := NewRecord("with,comma \"quoted\"", "hello\nworld", "Y2lwaGVyLTI=")
			require.NoError(t, s.Put(ctx, first))
			require.NoError(t, s.Put(ctx, second))

			got, err := s.Get(ctx, second.ID)
			require.NoError(t, err)
			assert.Equal(t, second.ID, got.ID)
			assert.Equal(t, second.Label, got.Label)
			assert.Equal(t, second.Plaintext, got.Plaintext)
			assert.Equal(t, second.Ciphertext, got.Ciphertext)
			assert.True(t, second.CreatedAt.Equal(got.CreatedAt))

			list, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, first.ID, list[0].ID)
			assert.Equal(t, second.ID, list[1].ID)
		})
	}
}

func TestStoreNotFound(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, uuid.NewString())
			assert.ErrorIs(t, err, ErrNotFound)

			list, err := s.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestStoreRejectsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, s.Put(ctx, Record{ID: "not-a-uuid", Ciphertext: "x"}))
			assert.Error(t, s.Put(ctx, Record{ID: uuid.NewString()}))
		})
	}
}

func TestStoreCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, s.Put(ctx, NewRecord("l", "", "c")))
		})
	}
}

func TestCSVReopenKeepsRecords(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	s, err := OpenCSV(fs, "/r.csv")
	require.NoError(t, err)
	rec := NewRecord("keep", "", "Y2lwaGVy")
	require.NoError(t, s.Put(ctx, rec))

	reopened, err := OpenCSV(fs, "/r.csv")
	require.NoError(t, err)
	list, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, rec.ID, list[0].ID)

	data, err := afero.ReadFile(fs, "/r.csv")
	require.NoError(t, err)
	assert.Contains(t, string(data), "ID,Label,Plaintext,Ciphertext,CreatedAt\n")
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("mongo", "x")
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestOpenFactory(t *testing.T) {
	dir := t.TempDir()
	for _, driver := range []string{DriverCSV, DriverSQLite, DriverBolt} {
		s, err := Open(driver, filepath.Join(dir, "store."+driver))
		require.NoError(t, err, driver)
		require.NoError(t, s.Close())
	}
}
