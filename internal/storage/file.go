package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileBackend stores each bucket as <base>/<bucket>.json.
type FileBackend struct {
	base string
}

// NewFileBackend ensures base exists.
func NewFileBackend(base string) (*FileBackend, error) {
	if err := os.MkdirAll(base, 0o700); err != nil {
		return nil, fmt.Errorf("storage error creating directories: %w", err)
	}
	return &FileBackend{base: base}, nil
}

func (f *FileBackend) path(b Bucket) string {
	return filepath.Join(f.base, string(b)+".json")
}

func (f *FileBackend) Get(b Bucket) ([]byte, bool, error) {
	path := f.path(b)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage error reading %s: %w", path, err)
	}
	return data, true, nil
}

// Put atomically replaces the bucket file: write to temp file then rename.
func (f *FileBackend) Put(b Bucket, data []byte) error {
	path := f.path(b)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// Quarantine moves an unreadable bucket file aside to <file>.corrupt and
// returns the backup path.
func (f *FileBackend) Quarantine(b Bucket) (string, error) {
	path := f.path(b)
	backupPath := path + ".corrupt"
	if err := os.Rename(path, backupPath); err != nil {
		return "", err
	}
	return backupPath, nil
}

func (f *FileBackend) Close() error { return nil }
