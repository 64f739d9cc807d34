// Package container wires one store connection and one bucket into the
// repositories. A Container is built once at start-up and passed down
// explicitly; there is no package-level instance.
package container

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lensfolio/internal/config"
	"github.com/lensfolio/internal/db"
	"github.com/lensfolio/internal/domain"
	"github.com/lensfolio/internal/logger"
	"github.com/lensfolio/internal/repository"
	"github.com/lensfolio/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotInitialized is the panic value raised when a repository is requested
// from a container that was never built with New.
var ErrNotInitialized = errors.New("container: not initialized")

// Deps are the collaborators a Container needs.
type Deps struct {
	DB     *gorm.DB
	Bucket storage.Bucket
	Logger *zap.Logger
	Photos repository.PhotoOptions
}

// Container hands out one instance of each repository.
type Container struct {
	deps  Deps
	ready bool

	photosOnce    sync.Once
	photos        *repository.PhotoRepository
	galleriesOnce sync.Once
	galleries     *repository.GalleryRepository
	inquiriesOnce sync.Once
	inquiries     *repository.InquiryRepository
}

// New validates deps and returns a ready container. Repositories are built
// on first use.
func New(deps Deps) (*Container, error) {
	if deps.DB == nil {
		return nil, errors.New("container: database is required")
	}
	if deps.Bucket == nil {
		return nil, errors.New("container: bucket is required")
	}
	deps.Logger = logger.OrNop(deps.Logger)
	if deps.Photos.Logger == nil {
		deps.Photos.Logger = deps.Logger
	}
	return &Container{deps: deps, ready: true}, nil
}

// Open builds the database connection and bucket described by cfg and
// returns a container owning them.
func Open(cfg config.AppConfig, log *zap.Logger) (*Container, error) {
	gdb, err := db.Open(cfg.DatabasePath, db.Options{LogLevel: cfg.DBLogLevel})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	bucket, err := NewBucket(cfg)
	if err != nil {
		db.Close(gdb)
		return nil, err
	}

	return New(Deps{
		DB:     gdb,
		Bucket: bucket,
		Logger: log,
		Photos: repository.PhotoOptions{
			Limits:       repository.UploadLimits{MaxBytes: cfg.MaxUploadBytes},
			SignedURLTTL: cfg.SignedURLTTL,
		},
	})
}

// NewBucket creates the object store selected by cfg.StorageDriver.
func NewBucket(cfg config.AppConfig) (storage.Bucket, error) {
	switch cfg.StorageDriver {
	case config.StorageS3:
		bucket, err := storage.NewS3Bucket(storage.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			Prefix:        cfg.S3Prefix,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("create s3 bucket: %w", err)
		}
		return bucket, nil
	case config.StorageDisk, "":
		bucket, err := storage.NewDiskBucket(cfg.UploadDir, cfg.UploadURLPath, []byte(cfg.SigningSecret))
		if err != nil {
			return nil, fmt.Errorf("create disk bucket: %w", err)
		}
		return bucket, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func (c *Container) mustBeReady() {
	if c == nil || !c.ready {
		panic(ErrNotInitialized)
	}
}

// Galleries returns the gallery repository.
func (c *Container) Galleries() domain.GalleryRepository {
	c.mustBeReady()
	c.galleriesOnce.Do(func() {
		c.galleries = repository.NewGalleryRepository(c.deps.DB, c.photoRepository(), c.deps.Logger)
	})
	return c.galleries
}

// Photos returns the photo repository.
func (c *Container) Photos() domain.PhotoRepository {
	c.mustBeReady()
	return c.photoRepository()
}

// Inquiries returns the inquiry repository.
func (c *Container) Inquiries() domain.InquiryRepository {
	c.mustBeReady()
	c.inquiriesOnce.Do(func() {
		c.inquiries = repository.NewInquiryRepository(c.deps.DB, c.deps.Logger)
	})
	return c.inquiries
}

// Bucket returns the object store the photo repository writes to.
func (c *Container) Bucket() storage.Bucket {
	c.mustBeReady()
	return c.deps.Bucket
}

// DB returns the shared database connection.
func (c *Container) DB() *gorm.DB {
	c.mustBeReady()
	return c.deps.DB
}

// Logger returns the root logger.
func (c *Container) Logger() *zap.Logger {
	c.mustBeReady()
	return c.deps.Logger
}

// Close releases the database connection.
func (c *Container) Close() error {
	if c == nil || !c.ready {
		return nil
	}
	c.ready = false
	return db.Close(c.deps.DB)
}

func (c *Container) photoRepository() *repository.PhotoRepository {
	c.photosOnce.Do(func() {
		c.photos = repository.NewPhotoRepository(c.deps.DB, c.deps.Bucket, c.deps.Photos)
	})
	return c.photos
}
