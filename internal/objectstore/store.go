// Package objectstore uploads generated archives and hands out time-limited
// download locations for them.
package objectstore

import (
	"context"
	"fmt"
	"time"
)

// Store persists archives and produces retrievable locations.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// UploadError is a failure of the object store collaborator.
type UploadError struct {
	Op  string
	Key string
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("object store %s of %s failed: %v", e.Op, e.Key, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
