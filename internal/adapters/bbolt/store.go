// Package bbolt implements the ports.Storage interface using bbolt (embedded
// B+ tree). One bucket holds a JSON entry per file: the content hash at
// tagging time plus the extracted records. Writes are transactional — a
// crash mid-write cannot corrupt previously committed data.
package bbolt

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/vphantom/repomapper/internal/ports"
)

var bucketTags = []byte("tags")

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

// entry is the JSON-serialized cache value for one file.
type entry struct {
	Hash    string            `json:"hash"`
	Records []ports.TagRecord `json:"records"`
}

// LoadRecords returns the cached records for path when the stored hash
// matches. A hash mismatch, absent entry, or corrupt value is a miss, not
// an error.
func (s *Store) LoadRecords(path, hash string) ([]ports.TagRecord, bool, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTags)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(path)); v != nil {
			raw = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("bbolt view: %w", err)
	}
	if raw == nil {
		return nil, false, nil
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, false, nil
	}
	if e.Hash != hash {
		return nil, false, nil
	}
	return e.Records, true, nil
}

// SaveRecords stores the records for path under hash, replacing any prior
// entry.
func (s *Store) SaveRecords(path, hash string, recs []ports.TagRecord) error {
	raw, err := json.Marshal(entry{Hash: hash, Records: recs})
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketTags)
		if err != nil {
			return err
		}
		return b.Put([]byte(path), raw)
	})
}
