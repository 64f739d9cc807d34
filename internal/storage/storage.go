// Package storage is the object store behind photo uploads. A Bucket keeps
// binary objects under opaque keys and hands out URLs for them.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

var (
	// ErrObjectNotFound is returned when a key has no stored object.
	ErrObjectNotFound = errors.New("object not found")
	// ErrObjectExists is returned by Put when the key is already taken.
	ErrObjectExists = errors.New("object already exists")
	// ErrInvalidKey is returned for empty keys or keys escaping the bucket.
	ErrInvalidKey = errors.New("invalid object key")
)

// Bucket is the object store contract used by the photo repository.
type Bucket interface {
	// Put stores body under key. It fails with ErrObjectExists instead of
	// overwriting.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	// PublicURL returns the unsigned URL of key.
	PublicURL(key string) string
	// SignedURL returns a URL for key that stops working after ttl.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// CleanKey normalises a key and rejects keys that are empty or try to climb
// out of the bucket.
func CleanKey(key string) (string, error) {
	key = strings.TrimLeft(strings.ReplaceAll(strings.TrimSpace(key), "\\", "/"), "/")
	if key == "" {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return "", ErrInvalidKey
		}
	}
	return key, nil
}
