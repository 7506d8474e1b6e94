package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Bucket names one independently stored snapshot.
type Bucket string

const (
	BucketMedicines    Bucket = "medicines"
	BucketMeasurements Bucket = "measurements"
	BucketFamily       Bucket = "family"
	BucketStreak       Bucket = "streak"
	BucketPreferences  Bucket = "preferences"
)

// Buckets lists every bucket the tracker persists.
var Buckets = []Bucket{BucketMedicines, BucketMeasurements, BucketFamily, BucketStreak, BucketPreferences}

// Backend is a key-value text store keyed by bucket.
// Get returns found == false for a bucket that was never written.
type Backend interface {
	Get(b Bucket) (data []byte, found bool, err error)
	Put(b Bucket, data []byte) error
	Close() error
}

const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// BaseDir returns the default data directory (~/.tdt).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".tdt"), nil
}

// Open creates the backend named kind rooted at base.
func Open(kind, base string) (Backend, error) {
	switch kind {
	case BackendFile, "":
		return NewFileBackend(base)
	case BackendBadger:
		return NewBadgerBackend(filepath.Join(base, "badger"))
	case BackendSQLite:
		return NewSQLBackend(filepath.Join(base, "tdt.db"))
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want file, badger or sqlite)", kind)
	}
}
