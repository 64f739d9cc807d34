package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lensfolio/internal/db"
	"github.com/lensfolio/internal/domain"
	"github.com/lensfolio/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s-%d?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"), time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	t.Cleanup(func() {
		db.Close(gdb)
	})
	return gdb
}

type testRepos struct {
	db        *gorm.DB
	bucket    *memBucket
	galleries *GalleryRepository
	photos    *PhotoRepository
	inquiries *InquiryRepository
}

func setupRepos(t *testing.T) testRepos {
	t.Helper()

	gdb := setupRepositoryTestDB(t)
	bucket := newMemBucket()
	photos := NewPhotoRepository(gdb, bucket, PhotoOptions{})
	return testRepos{
		db:        gdb,
		bucket:    bucket,
		galleries: NewGalleryRepository(gdb, photos, nil),
		photos:    photos,
		inquiries: NewInquiryRepository(gdb, nil),
	}
}

// memBucket is an in-memory storage.Bucket with per-key failure injection.
type memBucket struct {
	mu          sync.Mutex
	objects     map[string][]byte
	failDelete  map[string]error
	failPut     error
	deleteCalls []string
}

func newMemBucket() *memBucket {
	return &memBucket{objects: map[string][]byte{}, failDelete: map[string]error{}}
}

func (b *memBucket) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failPut != nil {
		return b.failPut
	}
	if _, ok := b.objects[key]; ok {
		return storage.ErrObjectExists
	}
	b.objects[key] = data
	return nil
}

func (b *memBucket) Open(_ context.Context, key string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *memBucket) Exists(_ context.Context, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[key]
	return ok, nil
}

func (b *memBucket) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleteCalls = append(b.deleteCalls, key)
	if err := b.failDelete[key]; err != nil {
		return err
	}
	delete(b.objects, key)
	return nil
}

func (b *memBucket) PublicURL(key string) string {
	return "https://media.test/" + key
}

func (b *memBucket) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", errors.New("ttl must be positive")
	}
	return fmt.Sprintf("https://media.test/%s?ttl=%d", key, int(ttl.Seconds())), nil
}

func (b *memBucket) has(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[key]
	return ok
}

func (b *memBucket) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

// testJPEG encodes a width x height JPEG and pads it to at least size bytes.
func testJPEG(t *testing.T, width, height, size int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	if pad := size - buf.Len(); pad > 0 {
		buf.Write(make([]byte, pad))
	}
	return buf.Bytes()
}

func mustCreateGallery(t *testing.T, repo *GalleryRepository, title, slug string) *domain.Gallery {
	t.Helper()

	res := repo.Create(context.Background(), domain.CreateGalleryInput{
		Title:    title,
		Slug:     slug,
		Category: domain.CategoryWedding,
	})
	if res.IsFailure() {
		t.Fatalf("failed to create gallery %q: %v", slug, res.Err())
	}
	return res.Value()
}

func mustUpload(t *testing.T, repo *PhotoRepository, galleryID, fileName string) *domain.Photo {
	t.Helper()

	data := testJPEG(t, 32, 24, 0)
	res := repo.Upload(context.Background(), domain.UploadPhotoInput{
		GalleryID: galleryID,
		FileName:  fileName,
		Size:      int64(len(data)),
		File:      bytes.NewReader(data),
	}, nil)
	if res.IsFailure() {
		t.Fatalf("failed to upload %q: %v", fileName, res.Err())
	}
	return res.Value()
}

func countRows(t *testing.T, gdb *gorm.DB, model any) int64 {
	t.Helper()

	var n int64
	if err := gdb.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}
