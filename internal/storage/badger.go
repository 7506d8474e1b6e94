package storage

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const badgerKeyPrefix = "bucket:"

// BadgerBackend keeps buckets as keys of an embedded BadgerDB.
type BadgerBackend struct {
	db *badger.DB
}

// NewBadgerBackend opens (or creates) the database at path. An empty path
// opens an in-memory database.
func NewBadgerBackend(path string) (*BadgerBackend, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithNumVersionsToKeep(1).
		WithCompactL0OnClose(true).
		WithValueLogFileSize(16 << 20).
		WithMemTableSize(16 << 20)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &BadgerBackend{db: db}, nil
}

func (s *BadgerBackend) Get(b Bucket) ([]byte, bool, error) {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + string(b)))
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			val = append([]byte{}, v...)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("badger get %s: %w", b, err)
	}
	return val, true, nil
}

func (s *BadgerBackend) Put(b Bucket, data []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(badgerKeyPrefix+string(b)), data)
	})
	if err != nil {
		return fmt.Errorf("badger put %s: %w", b, err)
	}
	return nil
}

func (s *BadgerBackend) Close() error {
	return s.db.Close()
}
