package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DiskBucket stores objects below BasePath and serves them under BaseURL.
// Signed URLs carry an expiry and an HMAC of key and expiry.
type DiskBucket struct {
	BasePath string
	BaseURL  string

	secret    []byte
	dirs      map[string]bool
	dirsMutex sync.Mutex
}

// NewDiskBucket creates the base directory when needed.
func NewDiskBucket(basePath, baseURL string, secret []byte) (*DiskBucket, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, errors.New("disk bucket base path is required")
	}
	if len(secret) == 0 {
		return nil, errors.New("disk bucket signing secret is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create bucket dir: %w", err)
	}
	return &DiskBucket{
		BasePath: basePath,
		BaseURL:  strings.TrimRight(baseURL, "/"),
		secret:   secret,
		dirs:     make(map[string]bool, 10),
	}, nil
}

func (b *DiskBucket) createDir(dir string) error {
	b.dirsMutex.Lock()
	defer b.dirsMutex.Unlock()

	if ok := b.dirs[dir]; ok {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b.dirs[dir] = true
	return nil
}

func (b *DiskBucket) fullPath(key string) (string, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(b.BasePath, filepath.FromSlash(clean)), nil
}

// Put writes body to a new file; an existing file is never replaced.
func (b *DiskBucket) Put(ctx context.Context, key string, body io.Reader, _ int64, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fileName, err := b.fullPath(key)
	if err != nil {
		return err
	}
	if err := b.createDir(filepath.Dir(fileName)); err != nil {
		return err
	}

	file, err := os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return ErrObjectExists
		}
		return err
	}
	if _, err := io.Copy(file, body); err != nil {
		file.Close()
		os.Remove(fileName)
		return err
	}
	return file.Close()
}

// Open returns a reader for the stored object.
func (b *DiskBucket) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fileName, err := b.fullPath(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fileName)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrObjectNotFound
	}
	return file, err
}

// Exists reports whether key holds an object.
func (b *DiskBucket) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fileName, err := b.fullPath(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(fileName)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Delete removes the object. Deleting a missing object is not an error.
func (b *DiskBucket) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fileName, err := b.fullPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fileName); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// PublicURL joins BaseURL and key.
func (b *DiskBucket) PublicURL(key string) string {
	return b.BaseURL + "/" + escapeKey(key)
}

// SignedURL returns PublicURL with expires and sig query parameters.
func (b *DiskBucket) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	if ttl <= 0 {
		return "", fmt.Errorf("signed url ttl must be positive, got %s", ttl)
	}
	expires := time.Now().Add(ttl).Unix()
	query := url.Values{}
	query.Set("expires", strconv.FormatInt(expires, 10))
	query.Set("sig", b.sign(clean, expires))
	return b.PublicURL(clean) + "?" + query.Encode(), nil
}

// Verify checks a signature produced by SignedURL.
func (b *DiskBucket) Verify(key, expires, sig string, now time.Time) bool {
	clean, err := CleanKey(key)
	if err != nil {
		return false
	}
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil || now.Unix() > exp {
		return false
	}
	expected := b.sign(clean, exp)
	return hmac.Equal([]byte(expected), []byte(sig))
}

// Path returns the local file of key, for serving.
func (b *DiskBucket) Path(key string) (string, error) {
	return b.fullPath(key)
}

func (b *DiskBucket) sign(key string, expires int64) string {
	mac := hmac.New(sha256.New, b.secret)
	mac.Write([]byte(key))
	mac.Write([]byte{'\n'})
	mac.Write([]byte(strconv.FormatInt(expires, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

func escapeKey(key string) string {
	parts := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
