package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// BlobStore is the storage surface the media layer writes through.
type BlobStore interface {
	Put(key string, r io.Reader) error
	Delete(key string) error
	URL(key string) string
}

// DiskStore stores blobs under a local directory and serves them from a
// static route.
type DiskStore struct {
	Root    string
	BaseURL string
}

func NewDiskStore(root, baseURL string) *DiskStore {
	if baseURL == "" {
		baseURL = "/media"
	}
	return &DiskStore{Root: root, BaseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *DiskStore) Put(key string, r io.Reader) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

func (s *DiskStore) Delete(key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *DiskStore) URL(key string) string {
	return s.BaseURL + "/" + key
}

// resolve keeps keys inside the root, rejecting traversal.
func (s *DiskStore) resolve(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid blob key: %s", key)
	}
	return filepath.Join(s.Root, clean), nil
}
