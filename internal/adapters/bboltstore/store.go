// Package bboltstore implements ports.Storage using bbolt (embedded B+ tree).
// Each profile gets its own top-level bucket holding the JSON-serialized
// snapshot under a single key. Writes are transactional — a crash mid-write
// cannot corrupt previously committed state.
package bboltstore

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/corey/logmap/internal/ports"
)

var keyState = []byte("state")

var _ ports.Storage = (*Store)(nil)

// Store implements ports.Storage backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSnapshot persists the full filter state for a profile, overwriting any
// prior state.
func (s *Store) SaveSnapshot(profile string, snap *ports.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("nil snapshot")
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(profile))
		if err != nil {
			return err
		}
		return b.Put(keyState, data)
	})
}

// LoadSnapshot retrieves the filter state for a profile.
// Returns nil, nil if no state exists (fresh profile).
func (s *Store) LoadSnapshot(profile string) (*ports.Snapshot, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(profile))
		if b == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := b.Get(keyState); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var snap ports.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// DeleteProfile removes all state for a profile.
// Idempotent: deleting a nonexistent profile is not an error.
func (s *Store) DeleteProfile(profile string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(profile)); err == bolt.ErrBucketNotFound {
			return nil // idempotent
		} else {
			return err
		}
	})
}
