// Package storage mirrors resource content into an S3-compatible object store.
// The SQL store stays authoritative; the mirror only receives copies.
package storage

import (
	"context"
	"io"
	"strings"
)

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known, or -1.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Key  string
	Size int64
	ETag string
}

// Storage is the subset of an S3-compatible client the mirror needs.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Delete removes an object by key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// ObjectKey maps a resource path to its object key: "/a/b" is stored as "a/b".
func ObjectKey(path string) string {
	return strings.TrimPrefix(path, "/")
}
