// Package storage defines the object store boundary and its S3 implementation
package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound            = errors.New("object not found")
	ErrRangeNotSatisfiable = errors.New("requested range not satisfiable")
	ErrStoreUnavailable    = errors.New("object store unavailable")
	ErrInvalidKey          = errors.New("invalid object key")
	ErrQuotaExceeded       = errors.New("storage quota exceeded")
)

// ObjectInfo is the cheap HEAD-level metadata of a stored object
type ObjectInfo struct {
	ContentType string
	Length      int64
	ETag        string
}

// Object is a fully fetched object
type Object struct {
	Bytes       []byte
	ContentType string
	ETag        string
}

// ObjectStore is the storage boundary the rest of the app talks to.
// Implementations must write objects with a long cache-control header,
// since the proxy layer is the primary cache boundary, not the browser.
type ObjectStore interface {
	// Put uploads a local file under key. progress, if non-nil, receives the
	// cumulative number of bytes transferred. Returns the public URL of the object.
	Put(ctx context.Context, localPath, key, contentType string, progress func(transferred int64)) (string, error)

	// Get fetches a whole object.
	Get(ctx context.Context, key string) (*Object, error)

	// GetRange streams the byte span [start, end] (inclusive) of an object.
	GetRange(ctx context.Context, key string, start, end int64) (io.ReadCloser, error)

	// Head returns object metadata without the body.
	Head(ctx context.Context, key string) (*ObjectInfo, error)

	// Delete removes objects, best effort, continuing past individual failures.
	Delete(ctx context.Context, keys ...string) error

	// URL returns the public proxy-independent URL for a stored key.
	URL(key string) string
}
