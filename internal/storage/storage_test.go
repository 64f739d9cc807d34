package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"
)

func newTestDiskBucket(t *testing.T) *DiskBucket {
	t.Helper()
	bucket, err := NewDiskBucket(t.TempDir(), "/media", []byte("test-secret"))
	if err != nil {
		t.Fatalf("create disk bucket: %v", err)
	}
	return bucket
}

func TestCleanKey(t *testing.T) {
	valid := map[string]string{
		"galleries/1/a.jpg":  "galleries/1/a.jpg",
		"/galleries/1/a.jpg": "galleries/1/a.jpg",
		`galleries\1\a.jpg`:  "galleries/1/a.jpg",
	}
	for in, want := range valid {
		got, err := CleanKey(in)
		if err != nil || got != want {
			t.Fatalf("CleanKey(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	for _, in := range []string{"", "  ", "../etc/passwd", "a//b", "a/./b"} {
		if _, err := CleanKey(in); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("expected invalid key for %q, got %v", in, err)
		}
	}
}

func TestDiskBucketLifecycle(t *testing.T) {
	ctx := context.Background()
	bucket := newTestDiskBucket(t)
	key := "galleries/g1/1700000000000-sunset.jpg"

	if err := bucket.Put(ctx, key, strings.NewReader("jpeg-bytes"), 10, "image/jpeg"); err != nil {
		t.Fatalf("put object: %v", err)
	}
	if err := bucket.Put(ctx, key, strings.NewReader("other"), 5, "image/jpeg"); !errors.Is(err, ErrObjectExists) {
		t.Fatalf("expected collision error, got %v", err)
	}

	exists, err := bucket.Exists(ctx, key)
	if err != nil || !exists {
		t.Fatalf("expected object to exist, got %v %v", exists, err)
	}

	rc, err := bucket.Open(ctx, key)
	if err != nil {
		t.Fatalf("open object: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "jpeg-bytes" {
		t.Fatalf("unexpected content %q", data)
	}

	if err := bucket.Delete(ctx, key); err != nil {
		t.Fatalf("delete object: %v", err)
	}
	if err := bucket.Delete(ctx, key); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
	if _, err := bucket.Open(ctx, key); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestDiskBucketSignedURL(t *testing.T) {
	ctx := context.Background()
	bucket := newTestDiskBucket(t)
	key := "galleries/g1/my photo.jpg"

	if got := bucket.PublicURL(key); got != "/media/galleries/g1/my%20photo.jpg" {
		t.Fatalf("unexpected public url %q", got)
	}

	signed, err := bucket.SignedURL(ctx, key, time.Minute)
	if err != nil {
		t.Fatalf("sign url: %v", err)
	}
	parsed, err := url.Parse(signed)
	if err != nil {
		t.Fatalf("parse signed url: %v", err)
	}
	expires := parsed.Query().Get("expires")
	sig := parsed.Query().Get("sig")

	if !bucket.Verify(key, expires, sig, time.Now()) {
		t.Fatalf("expected signature to verify")
	}
	if bucket.Verify("galleries/g1/other.jpg", expires, sig, time.Now()) {
		t.Fatalf("signature must be bound to the key")
	}
	if bucket.Verify(key, expires, sig, time.Now().Add(2*time.Minute)) {
		t.Fatalf("signature must expire")
	}
	if _, err := bucket.SignedURL(ctx, key, 0); err == nil {
		t.Fatalf("expected error for non-positive ttl")
	}
}

func TestS3BucketURLs(t *testing.T) {
	bucket, err := NewS3Bucket(S3Config{
		Bucket:    "portfolio",
		Region:    "us-west-2",
		Prefix:    "/prod/",
		AccessKey: "AKIDEXAMPLE",
		SecretKey: "secret",
	})
	if err != nil {
		t.Fatalf("create s3 bucket: %v", err)
	}

	if got := bucket.PublicURL("galleries/g1/a.jpg"); got != "https://portfolio.s3.us-west-2.amazonaws.com/prod/galleries/g1/a.jpg" {
		t.Fatalf("unexpected public url %q", got)
	}

	signed, err := bucket.SignedURL(context.Background(), "galleries/g1/a.jpg", 15*time.Minute)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if !strings.Contains(signed, "prod/galleries/g1/a.jpg") || !strings.Contains(signed, "X-Amz-Signature=") {
		t.Fatalf("unexpected presigned url %q", signed)
	}

	cdn, err := NewS3Bucket(S3Config{Bucket: "portfolio", PublicBaseURL: "https://cdn.example.com/"})
	if err != nil {
		t.Fatalf("create s3 bucket: %v", err)
	}
	if got := cdn.PublicURL("a b.jpg"); got != "https://cdn.example.com/a%20b.jpg" {
		t.Fatalf("unexpected cdn url %q", got)
	}
}
