package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DiskStore persists uploaded images on the local filesystem. Files are keyed
// by upload timestamp plus the sanitized original filename and served back
// statically; files orphaned by a later product delete are not cleaned up.
type DiskStore struct {
	dir string
}

// NewDiskStore creates the upload directory if needed and returns a store
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save writes the uploaded content to disk and returns the stored filename
func (s *DiskStore) Save(originalFilename string, r io.Reader) (string, error) {
	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), sanitizeFilename(originalFilename))

	f, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	return filename, nil
}

// Dir returns the directory backing the store
func (s *DiskStore) Dir() string {
	return s.dir
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	return name
}
