package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

const stationBucket = "stations"

// stationEntry is the value stored under an external id.
type stationEntry struct {
	ID         string    `json:"id"`
	RecordedAt time.Time `json:"recorded_at"`
}

// boltStore implements a Store backed by BoltDB.
type boltStore struct {
	db  *bolt.DB
	now func() time.Time
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(stationBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	return &boltStore{db: db, now: time.Now}, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// PutStation records the API id of the station with the given external id.
func (b *boltStore) PutStation(externalID, id string) error {
	externalID = strings.TrimSpace(externalID)
	id = strings.TrimSpace(id)
	if externalID == "" || id == "" {
		return fmt.Errorf("station index needs both external id and id")
	}

	raw, err := json.Marshal(stationEntry{ID: id, RecordedAt: b.now().UTC()})
	if err != nil {
		return fmt.Errorf("encode station entry: %w", err)
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(stationBucket))
		if bucket == nil {
			return fmt.Errorf("station bucket missing")
		}
		return bucket.Put([]byte(externalID), raw)
	})
}

// LookupStation returns the API id recorded for externalID.
func (b *boltStore) LookupStation(externalID string) (string, bool, error) {
	var id string
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(stationBucket))
		if bucket == nil {
			return fmt.Errorf("station bucket missing")
		}
		value := bucket.Get([]byte(strings.TrimSpace(externalID)))
		if value == nil {
			return nil
		}
		entry, ok := decodeEntry(value)
		if ok {
			id = entry.ID
		}
		return nil
	})
	return id, id != "", err
}

// RemoveStation drops every entry pointing at the API id.
func (b *boltStore) RemoveStation(id string) error {
	id = strings.TrimSpace(id)
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(stationBucket))
		if bucket == nil {
			return fmt.Errorf("station bucket missing")
		}

		var stale [][]byte
		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			entry, ok := decodeEntry(v)
			if !ok || entry.ID == id {
				stale = append(stale, append([]byte(nil), k...))
			}
		}
		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// Stations returns the whole index keyed by external id.
func (b *boltStore) Stations() (map[string]string, error) {
	out := make(map[string]string)
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(stationBucket))
		if bucket == nil {
			return fmt.Errorf("station bucket missing")
		}
		return bucket.ForEach(func(k, v []byte) error {
			if entry, ok := decodeEntry(v); ok {
				out[string(k)] = entry.ID
			}
			return nil
		})
	})
	return out, err
}

// decodeEntry decodes a stored station entry, rejecting corrupt values.
func decodeEntry(value []byte) (stationEntry, bool) {
	var entry stationEntry
	if err := json.Unmarshal(value, &entry); err != nil || entry.ID == "" {
		return stationEntry{}, false
	}
	return entry, true
}
