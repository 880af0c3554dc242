package storage

// Package storage abstracts where uploaded images live.  Gallery photos
// and work-record photos go through ObjectStorage so the HTTP handlers
// never touch the filesystem directly.

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ObjectStorage stores raw file bytes under a relative key and serves
// them back via a public URL.
type ObjectStorage interface {
	// Upload writes data under key and returns the public URL for it.
	Upload(key string, data []byte) (string, error)
	// Remove deletes the object for key. Removing a missing object is not
	// an error.
	Remove(key string) error
}

// LocalStorage keeps objects on the local disk under Dir and serves them
// under BaseURL. The HTTP layer mounts Dir as a static route at BaseURL.
type LocalStorage struct {
	Dir     string
	BaseURL string
}

// NewLocalStorage creates the backing directory if needed.
func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create dir: %w", err)
	}
	return &LocalStorage{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload writes data under key inside Dir. Keys may contain forward
// slashes to form subdirectories; path traversal outside Dir is rejected.
func (s *LocalStorage) Upload(key string, data []byte) (string, error) {
	clean, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
		return "", fmt.Errorf("storage: create dir: %w", err)
	}
	if err := os.WriteFile(clean, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write %s: %w", key, err)
	}
	return s.BaseURL + "/" + strings.TrimLeft(path.Clean(key), "/"), nil
}

// Remove deletes the object for key.
func (s *LocalStorage) Remove(key string) error {
	clean, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(clean); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove %s: %w", key, err)
	}
	return nil
}

// resolve maps key to an absolute path inside Dir.
func (s *LocalStorage) resolve(key string) (string, error) {
	key = strings.TrimLeft(path.Clean("/"+key), "/")
	if key == "" || key == "." {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	return filepath.Join(s.Dir, filepath.FromSlash(key)), nil
}
