// Package storage persists uploaded and composed images on the local
// filesystem.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Disk stores files under a single flat directory.
type Disk struct {
	dir string
}

// NewDisk creates the upload directory if needed and returns a store over it
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Disk{dir: dir}, nil
}

// Save writes the reader's contents to name inside the store
func (d *Disk) Save(name string, r io.Reader) error {
	file, err := os.Create(d.Path(name))
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Remove deletes name from the store. A missing file is not an error: the
// expiry sweep and token deletion may race, and removal must stay a no-op
// the second time.
func (d *Disk) Remove(name string) error {
	if err := os.Remove(d.Path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Path returns the on-disk path for name
func (d *Disk) Path(name string) string {
	return filepath.Join(d.dir, filepath.Base(name))
}
