// Package storage keeps resource blobs in an S3-compatible object store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

var ErrBlobNotFound = errors.New("blob not found")

// BlobStorage stores resource payloads by key.
type BlobStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	// Get returns the blob; the caller closes it.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete is idempotent: removing a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

var now = time.Now

// NewKey returns a fresh, date-partitioned object key.
func NewKey() string {
	d := now()
	return fmt.Sprintf("resources/%d/%02d/%02d/%s", d.Year(), d.Month(), d.Day(), uuid.New())
}
