package container

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/lensfolio/internal/config"
	"github.com/lensfolio/internal/db"
	"github.com/lensfolio/internal/domain"
	"github.com/lensfolio/internal/storage"
)

func newTestContainer(t *testing.T) *Container {
	t.Helper()

	gdb, err := db.Open(fmt.Sprintf("file:container-%d?mode=memory&cache=shared", time.Now().UnixNano()), db.Options{LogLevel: "silent"})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	bucket, err := storage.NewDiskBucket(t.TempDir(), "/media", []byte("secret"))
	if err != nil {
		t.Fatalf("create bucket: %v", err)
	}
	c, err := New(Deps{DB: gdb, Bucket: bucket})
	if err != nil {
		t.Fatalf("create container: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestContainerReturnsSharedInstances(t *testing.T) {
	c := newTestContainer(t)

	if c.Galleries() != c.Galleries() {
		t.Fatalf("expected the same gallery repository")
	}
	if c.Photos() != c.Photos() {
		t.Fatalf("expected the same photo repository")
	}
	if c.Inquiries() != c.Inquiries() {
		t.Fatalf("expected the same inquiry repository")
	}

	res := c.Galleries().Create(context.Background(), domain.CreateGalleryInput{Title: "Kona Wedding", Category: domain.CategoryWedding})
	if res.IsFailure() {
		t.Fatalf("create gallery through container: %v", res.Err())
	}
	if found := c.Galleries().FindBySlug(context.Background(), "kona-wedding"); found.IsFailure() {
		t.Fatalf("find gallery through container: %v", found.Err())
	}
}

func TestContainerFailsFastWhenUninitialized(t *testing.T) {
	accessors := map[string]func(c *Container){
		"galleries": func(c *Container) { c.Galleries() },
		"photos":    func(c *Container) { c.Photos() },
		"inquiries": func(c *Container) { c.Inquiries() },
	}
	for name, access := range accessors {
		t.Run(name, func(t *testing.T) {
			for _, c := range []*Container{nil, {}} {
				func() {
					defer func() {
						err, _ := recover().(error)
						if !errors.Is(err, ErrNotInitialized) {
							t.Fatalf("expected ErrNotInitialized panic, got %v", err)
						}
					}()
					access(c)
				}()
			}
		})
	}
}

func TestContainerRejectsMissingDeps(t *testing.T) {
	if _, err := New(Deps{}); err == nil {
		t.Fatalf("expected error without database")
	}
}

func TestContainerCloseIsFinal(t *testing.T) {
	c := newTestContainer(t)
	if err := c.Close(); err != nil {
		t.Fatalf("close container: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected accessor to panic after close")
		}
	}()
	c.Inquiries()
}

func TestOpenFromConfig(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(config.AppConfig{
		DatabasePath:  filepath.Join(dir, "lensfolio.db"),
		DBLogLevel:    "silent",
		StorageDriver: config.StorageDisk,
		UploadDir:     filepath.Join(dir, "media"),
		UploadURLPath: "/media",
		SigningSecret: "secret",
	}, nil)
	if err != nil {
		t.Fatalf("open container: %v", err)
	}
	defer c.Close()

	if _, ok := c.Bucket().(*storage.DiskBucket); !ok {
		t.Fatalf("expected disk bucket, got %T", c.Bucket())
	}
	if res := c.Inquiries().GetStats(context.Background()); res.IsFailure() {
		t.Fatalf("get stats: %v", res.Err())
	}

	if _, err := NewBucket(config.AppConfig{StorageDriver: "ftp"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
