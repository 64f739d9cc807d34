package handler

import (
	"time"

	"github.com/lensfolio/internal/domain"
	"github.com/lensfolio/internal/logger"
	"github.com/lensfolio/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories is the subset of the container the handlers depend on.
type Repositories interface {
	Galleries() domain.GalleryRepository
	Photos() domain.PhotoRepository
	Inquiries() domain.InquiryRepository
}

// Options configures optional handler behaviour.
type Options struct {
	// Media is set when photos live on local disk and the server must serve
	// them itself.
	Media  *storage.DiskBucket
	Logger *zap.Logger
	// MaxUploadBytes bounds the multipart body accepted by photo uploads.
	MaxUploadBytes int64
	Now            func() time.Time
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	galleries domain.GalleryRepository
	photos    domain.PhotoRepository
	inquiries domain.InquiryRepository
	media     *storage.DiskBucket
	log       *zap.Logger
	maxUpload int64
	now       func() time.Time
}

// NewAPI constructs a handler set. db backs admin accounts; repos serves
// everything else.
func NewAPI(db *gorm.DB, repos Repositories, opts Options) *API {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &API{
		db:        db,
		galleries: repos.Galleries(),
		photos:    repos.Photos(),
		inquiries: repos.Inquiries(),
		media:     opts.Media,
		log:       logger.OrNop(opts.Logger).Named("http"),
		maxUpload: opts.MaxUploadBytes,
		now:       now,
	}
}
