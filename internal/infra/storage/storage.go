// Package storage keeps uploaded images. Development uses the local disk,
// production an S3-compatible object store.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidKey = errors.New("invalid storage key")

// PutObjectOptions describe an upload. Size is -1 when unknown.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is implemented by every image backend. Implementations are safe for
// concurrent use.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	// URL returns an address the client can fetch the object from.
	URL(ctx context.Context, key string) (string, error)
}

// NewKey builds a unique object key under prefix keeping the extension.
// Example: NewKey("posts", "png") -> "posts/2f6c...e1.png"
func NewKey(prefix, ext string) string {
	name := uuid.NewString()
	if ext != "" {
		name += "." + ext
	}
	return path.Join(prefix, name)
}
