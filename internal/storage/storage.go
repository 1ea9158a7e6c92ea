// Package storage holds the narrow contract the core uses to talk to file
// storage. Upload handling (multipart parsing, MIME filtering, resizing)
// lives upstream; the core only records metadata and removes files it no
// longer needs.
package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore is the contract consumed by the task and report services.
// Deletions are invoked best-effort: callers log failures and move on.
type FileStore interface {
	Delete(path string) error
}

// LocalStore deletes files under a root directory on local disk.
type LocalStore struct {
	Root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{Root: root}
}

// Delete removes a stored file. A missing file is not an error; the caller
// only cares that the file is gone.
func (s *LocalStore) Delete(path string) error {
	if path == "" {
		return nil
	}
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(s.Root, path)
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
