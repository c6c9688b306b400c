package credstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	credentialsBucket = "credentials"
	stateKey          = "session"
)

// boltStore keeps State as one JSON record in a BoltDB bucket.
type boltStore struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) a BoltDB-backed Store at path.
func OpenBolt(path string) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(credentialsBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	return &boltStore{db: db}, nil
}

func (b *boltStore) Load() (State, error) {
	var state State
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(credentialsBucket))
		if bucket == nil {
			return fmt.Errorf("credentials bucket missing")
		}
		value := bucket.Get([]byte(stateKey))
		if value == nil {
			return nil
		}
		return json.Unmarshal(value, &state)
	})
	if err != nil {
		return State{}, fmt.Errorf("load credentials: %w", err)
	}
	return state, nil
}

func (b *boltStore) Save(state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(credentialsBucket))
		if bucket == nil {
			return fmt.Errorf("credentials bucket missing")
		}
		return bucket.Put([]byte(stateKey), data)
	})
}

func (b *boltStore) Delete() error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(credentialsBucket))
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(stateKey))
	})
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}
