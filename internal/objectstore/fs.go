package objectstore

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore implements Store on the local filesystem. Locations are file://
// URLs and do not expire.
type FileStore struct {
	root string
}

// NewFileStore creates a FileStore writing below root.
func NewFileStore(root string) (*FileStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create object store root: %w", err)
	}
	return &FileStore{root: abs}, nil
}

// Put writes data to root/key.
func (s *FileStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	path, err := s.path(key)
	if err != nil {
		return &UploadError{Op: "put", Key: key, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &UploadError{Op: "put", Key: key, Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &UploadError{Op: "put", Key: key, Err: err}
	}
	return nil
}

// PresignedURL returns the file:// URL of an existing key. ttl is ignored.
func (s *FileStore) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", &UploadError{Op: "presign", Key: key, Err: err}
	}
	if _, err := os.Stat(path); err != nil {
		return "", &UploadError{Op: "presign", Key: key, Err: err}
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String(), nil
}

func (s *FileStore) path(key string) (string, error) {
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if path == s.root || !strings.HasPrefix(path, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("key %q escapes the store root", key)
	}
	return path, nil
}
