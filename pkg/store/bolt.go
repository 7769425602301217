package store

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"aes256-go/pkg/codec"

	bolt "go.etcd.io/bbolt"
)

var (
	recordsBucket = []byte("records")
	indexBucket   = []byte("records_by_id")
)

// BoltStore keeps gob-encoded records keyed by insertion sequence, with a
// secondary id index.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens the bolt database at path.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(recordsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(indexBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bolt buckets: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

func (s *BoltStore) Put(ctx context.Context, r Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(r); err != nil {
		return err
	}
	data, err := codec.Encode(r)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		records := tx.Bucket(recordsBucket)
		index := tx.Bucket(indexBucket)
		if index.Get([]byte(r.ID)) != nil {
			return fmt.Errorf("store: duplicate record id %s", r.ID)
		}
		seq, err := records.NextSequence()
		if err != nil {
			return err
		}
		key := seqKey(seq)
		if err := records.Put(key, data); err != nil {
			return err
		}
		return index.Put([]byte(r.ID), key)
	})
}

func (s *BoltStore) Get(ctx context.Context, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	var out Record
	err := s.db.View(func(tx *bolt.Tx) error {
		key := tx.Bucket(indexBucket).Get([]byte(id))
		if key == nil {
			return ErrNotFound
		}
		data := tx.Bucket(recordsBucket).Get(key)
		if data == nil {
			return ErrNotFound
		}
		r, err := codec.Decode[Record](data)
		if err != nil {
			return fmt.Errorf("store: record %s: %w", id, err)
		}
		out = *r
		return nil
	})
	return out, err
}

func (s *BoltStore) List(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(recordsBucket).ForEach(func(_, v []byte) error {
			r, err := codec.Decode[Record](v)
			if err != nil {
				return fmt.Errorf("store: %w", err)
			}
			out = append(out, *r)
			return nil
		})
	})
	return out, err
}

func (s *BoltStore) Close() error { return s.db.Close() }
