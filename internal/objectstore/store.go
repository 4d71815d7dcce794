// Package objectstore abstracts blob storage for image assets.
package objectstore

import (
	"context"
	"io"
	"time"
)

// ObjectInfo describes a stored object or a directory prefix.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
	ContentType  string
	IsDir        bool
	Metadata     map[string]string
}

// Store defines the object storage operations the image service consumes.
// Missing objects are surfaced as not-found errors; everything else the
// backend rejects is a storage error.
type Store interface {
	Put(ctx context.Context, key string, data io.Reader, size int64, contentType string, metadata map[string]string) error
	Get(ctx context.Context, key string) ([]byte, string, error)
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	List(ctx context.Context, prefix string, recursive bool) ([]ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
