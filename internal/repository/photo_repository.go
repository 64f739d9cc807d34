package repository

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lensfolio/internal/db"
	"github.com/lensfolio/internal/domain"
	"github.com/lensfolio/internal/imaging"
	"github.com/lensfolio/internal/logger"
	"github.com/lensfolio/internal/storage"
	"github.com/lensfolio/internal/validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	photoEntity = "photo"

	// DefaultSignedURLTTL is used when a caller passes a non-positive ttl.
	DefaultSignedURLTTL = time.Hour
)

var photoListScope = listScope{
	columns:      columnSet("display_order", "uploaded_at", "updated_at", "title", "file_size"),
	defaultOrder: "display_order",
	tiebreak:     "uploaded_at",
	dateColumn:   "uploaded_at",
}

// PhotoOptions configures a PhotoRepository.
type PhotoOptions struct {
	Limits       UploadLimits
	SignedURLTTL time.Duration
	Logger       *zap.Logger
	// Now overrides the clock used for storage keys.
	Now func() time.Time
}

// PhotoRepository implements domain.PhotoRepository with GORM rows and a
// storage.Bucket for the binaries.
type PhotoRepository struct {
	db     *gorm.DB
	bucket storage.Bucket
	limits UploadLimits
	ttl    time.Duration
	log    *zap.Logger
	now    func() time.Time
}

var _ domain.PhotoRepository = (*PhotoRepository)(nil)

// NewPhotoRepository creates a PhotoRepository.
func NewPhotoRepository(gdb *gorm.DB, bucket storage.Bucket, opts PhotoOptions) *PhotoRepository {
	ttl := opts.SignedURLTTL
	if ttl <= 0 {
		ttl = DefaultSignedURLTTL
	}
	now := opts.Now
	if now == nil {
		now = utcNow
	}
	return &PhotoRepository{
		db:     gdb,
		bucket: bucket,
		limits: opts.Limits.withDefaults(),
		ttl:    ttl,
		log:    logger.OrNop(opts.Logger).Named("photos"),
		now:    now,
	}
}

// FindByID fetches a photo by id.
func (r *PhotoRepository) FindByID(ctx context.Context, id string) domain.Result[*domain.Photo] {
	return run(func() (*domain.Photo, error) {
		row, derr := r.load(ctx, id)
		if derr != nil {
			return nil, derr
		}
		p := photoFromRow(*row)
		return &p, nil
	})
}

// FindByGallery lists the photos of a gallery in display order. A gallery
// without photos, or one that no longer exists, yields an empty list.
func (r *PhotoRepository) FindByGallery(ctx context.Context, galleryID string) domain.Result[[]domain.Photo] {
	galleryID = strings.TrimSpace(galleryID)
	return r.FindAll(ctx, domain.PhotoFilter{GalleryID: &galleryID})
}

// FindAll lists photos matching filter.
func (r *PhotoRepository) FindAll(ctx context.Context, filter domain.PhotoFilter) domain.Result[[]domain.Photo] {
	return run(func() ([]domain.Photo, error) {
		query := r.db.WithContext(ctx).Model(&db.Photo{})
		if filter.GalleryID != nil {
			query = query.Where("gallery_id = ?", *filter.GalleryID)
		}
		if filter.IsPublished != nil {
			query = query.Where("is_published = ?", *filter.IsPublished)
		}
		if filter.StorageKey != nil {
			query = query.Where("storage_key = ?", *filter.StorageKey)
		}

		query, derr := photoListScope.apply(query, filter.ListOptions)
		if derr != nil {
			return nil, derr
		}

		var rows []db.Photo
		if err := query.Find(&rows).Error; err != nil {
			return nil, domain.NewDatabaseError("list photos", err)
		}
		return photosFromRows(rows), nil
	})
}

// Upload checks the file locally, writes it to the bucket and registers a
// photo row. Width and height are left at zero for EnrichDimensions.
func (r *PhotoRepository) Upload(ctx context.Context, input domain.UploadPhotoInput, onProgress domain.ProgressFunc) domain.Result[*domain.Photo] {
	report := func(stage domain.UploadStage, pct int) {
		if onProgress != nil {
			onProgress(domain.UploadProgress{Stage: stage, Percent: pct})
		}
	}

	return run(func() (*domain.Photo, error) {
		report(domain.UploadValidating, 0)

		input, derr := validation.UploadPhoto(input)
		if derr != nil {
			return nil, derr
		}
		if input.Size > r.limits.MaxBytes {
			return nil, domain.NewFileUploadError("file exceeds upload limit", ErrFileTooLarge)
		}
		header, mimeType, derr := r.limits.sniff(input.File)
		if derr != nil {
			return nil, derr
		}

		if _, derr := r.loadGallery(ctx, input.GalleryID); derr != nil {
			return nil, derr
		}

		key := storageKey(input.GalleryID, r.now(), uuid.NewString()[:8], input.FileName)
		body := &meteredReader{
			r:          io.MultiReader(bytes.NewReader(header), input.File),
			max:        r.limits.MaxBytes,
			total:      input.Size,
			onProgress: onProgress,
		}

		report(domain.UploadUploading, 0)
		if err := r.bucket.Put(ctx, key, body, input.Size, mimeType); err != nil {
			if errors.Is(err, ErrFileTooLarge) || body.read > r.limits.MaxBytes {
				r.removeObject(ctx, key)
				return nil, domain.NewFileUploadError("file exceeds upload limit", ErrFileTooLarge)
			}
			return nil, domain.NewStorageError("upload", "upload photo", err)
		}

		report(domain.UploadSaving, 100)
		order, derr := r.resolveOrder(ctx, input.GalleryID, input.DisplayOrder)
		if derr != nil {
			r.removeObject(ctx, key)
			return nil, derr
		}

		url := r.bucket.PublicURL(key)
		row := db.Photo{
			GalleryID:    input.GalleryID,
			Title:        input.Title,
			Description:  input.Description,
			URL:          url,
			ThumbnailURL: url,
			StorageKey:   key,
			Width:        0,
			Height:       0,
			FileSize:     body.read,
			MimeType:     mimeType,
			DisplayOrder: order,
			IsPublished:  true,
			Metadata:     input.Metadata,
		}
		if input.IsPublished != nil {
			row.IsPublished = *input.IsPublished
		}

		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			r.removeObject(ctx, key)
			return nil, translate(err, photoEntity, key, "create photo")
		}

		r.log.Info("photo uploaded",
			logger.PhotoID(row.ID),
			logger.GalleryID(row.GalleryID),
			logger.StorageKey(key),
			zap.Int64("bytes", row.FileSize),
		)
		report(domain.UploadDone, 100)
		p := photoFromRow(row)
		return &p, nil
	})
}

// Update applies a partial update.
func (r *PhotoRepository) Update(ctx context.Context, id string, input domain.UpdatePhotoInput) domain.Result[*domain.Photo] {
	return run(func() (*domain.Photo, error) {
		input, derr := validation.UpdatePhoto(input)
		if derr != nil {
			return nil, derr
		}
		row, derr := r.load(ctx, id)
		if derr != nil {
			return nil, derr
		}

		changes := db.Photo{}
		fields := make([]string, 0, 5)
		if input.Title != nil {
			changes.Title = *input.Title
			fields = append(fields, "Title")
		}
		if input.Description != nil {
			if *input.Description == "" {
				changes.Description = nil
			} else {
				changes.Description = input.Description
			}
			fields = append(fields, "Description")
		}
		if input.DisplayOrder != nil {
			changes.DisplayOrder = *input.DisplayOrder
			fields = append(fields, "DisplayOrder")
		}
		if input.IsPublished != nil {
			changes.IsPublished = *input.IsPublished
			fields = append(fields, "IsPublished")
		}
		if input.Metadata != nil {
			changes.Metadata = input.Metadata
			fields = append(fields, "Metadata")
		}

		if len(fields) > 0 {
			if err := r.db.WithContext(ctx).Model(row).Select(fields).Updates(&changes).Error; err != nil {
				return nil, translate(err, photoEntity, id, "update photo")
			}
		}
		return r.reload(ctx, id)
	})
}

// Move reassigns a photo to another gallery, optionally setting its display
// order there. Photo counts of both galleries are left as they were.
func (r *PhotoRepository) Move(ctx context.Context, input domain.MovePhotoInput) domain.Result[*domain.Photo] {
	return run(func() (*domain.Photo, error) {
		input, derr := validation.MovePhoto(input)
		if derr != nil {
			return nil, derr
		}
		row, derr := r.load(ctx, input.PhotoID)
		if derr != nil {
			return nil, derr
		}
		if _, derr := r.loadGallery(ctx, input.TargetGalleryID); derr != nil {
			return nil, derr
		}

		updates := map[string]any{"gallery_id": input.TargetGalleryID}
		if input.DisplayOrder != nil {
			updates["display_order"] = *input.DisplayOrder
		}
		if err := r.db.WithContext(ctx).Model(row).Updates(updates).Error; err != nil {
			return nil, translate(err, photoEntity, input.PhotoID, "move photo")
		}

		r.log.Info("photo moved",
			logger.PhotoID(row.ID),
			zap.String("from_gallery_id", row.GalleryID),
			zap.String("to_gallery_id", input.TargetGalleryID),
		)
		return r.reload(ctx, input.PhotoID)
	})
}

// Delete removes the stored object and then the row. A failed object delete
// is logged and does not stop the row delete.
func (r *PhotoRepository) Delete(ctx context.Context, id string) domain.Result[struct{}] {
	return run(func() (struct{}, error) {
		if _, derr := r.delete(ctx, id); derr != nil {
			return struct{}{}, derr
		}
		return struct{}{}, nil
	})
}

// DeleteBatch deletes ids one after another. Ids deleted before a failure
// stay deleted. The result is a failure when any id failed; its Detail
// holds the BatchOutcome.
func (r *PhotoRepository) DeleteBatch(ctx context.Context, ids []string) domain.Result[domain.BatchOutcome] {
	return run(func() (domain.BatchOutcome, error) {
		outcome := domain.BatchOutcome{Deleted: make([]string, 0, len(ids))}
		if derr := checkDistinct(ids, "ids"); derr != nil {
			return outcome, derr
		}

		for _, id := range ids {
			storageErr, derr := r.delete(ctx, id)
			if derr == nil {
				outcome.Deleted = append(outcome.Deleted, id)
				derr = storageErr
			}
			if derr != nil {
				if outcome.Failed == nil {
					outcome.Failed = map[string]*domain.Error{}
				}
				outcome.Failed[id] = derr
			}
		}

		if !outcome.OK() {
			return outcome, partialFailure("delete photos", ids, outcome.Failed, outcome)
		}
		return outcome, nil
	})
}

// Reorder sets display_order to the position of each photo id within
// galleryID, one write per id. Ids outside the gallery are reported as not
// found.
func (r *PhotoRepository) Reorder(ctx context.Context, galleryID string, photoIDs []string) domain.Result[domain.ReorderOutcome] {
	return run(func() (domain.ReorderOutcome, error) {
		outcome := domain.ReorderOutcome{Updated: make([]string, 0, len(photoIDs))}
		if derr := checkDistinct(photoIDs, "photoIds"); derr != nil {
			return outcome, derr
		}
		if _, derr := r.loadGallery(ctx, galleryID); derr != nil {
			return outcome, derr
		}

		for index, id := range photoIDs {
			res := r.db.WithContext(ctx).Model(&db.Photo{}).
				Where("id = ? AND gallery_id = ?", id, galleryID).
				Update("display_order", index)
			var derr *domain.Error
			switch {
			case res.Error != nil:
				derr = domain.NewDatabaseError("reorder photos", res.Error)
			case res.RowsAffected == 0:
				derr = domain.NewNotFoundError(photoEntity, id)
			}
			if derr != nil {
				if outcome.Failed == nil {
					outcome.Failed = map[string]*domain.Error{}
				}
				outcome.Failed[id] = derr
				r.log.Warn("photo reorder step failed", logger.GalleryID(galleryID), logger.PhotoID(id), zap.Error(derr))
				continue
			}
			outcome.Updated = append(outcome.Updated, id)
		}

		if !outcome.OK() {
			return outcome, partialFailure("reorder photos", photoIDs, outcome.Failed, outcome)
		}
		return outcome, nil
	})
}

// GetPhotoURL returns a signed URL for the object at storageKey.
func (r *PhotoRepository) GetPhotoURL(ctx context.Context, storageKey string, ttl time.Duration) domain.Result[string] {
	return run(func() (string, error) {
		return r.signedURL(ctx, storageKey, ttl)
	})
}

// GetThumbnailURL returns a signed URL for the thumbnail of storageKey, or
// for the original when no thumbnail object exists.
func (r *PhotoRepository) GetThumbnailURL(ctx context.Context, storageKey string, ttl time.Duration) domain.Result[string] {
	return run(func() (string, error) {
		key, derr := cleanStorageKey(storageKey)
		if derr != nil {
			return "", derr
		}
		thumb := thumbnailKey(key)
		exists, err := r.bucket.Exists(ctx, thumb)
		if err != nil {
			r.log.Warn("thumbnail lookup failed, using original", logger.StorageKey(key), zap.Error(err))
		}
		if exists {
			return r.signedURL(ctx, thumb, ttl)
		}
		return r.signedURL(ctx, key, ttl)
	})
}

// EnrichDimensions decodes the stored object's header and records its
// width and height.
func (r *PhotoRepository) EnrichDimensions(ctx context.Context, id string) domain.Result[*domain.Photo] {
	return run(func() (*domain.Photo, error) {
		row, derr := r.load(ctx, id)
		if derr != nil {
			return nil, derr
		}

		rc, err := r.bucket.Open(ctx, row.StorageKey)
		if err != nil {
			return nil, domain.NewStorageError("download", "open stored photo", err)
		}
		dims, err := imaging.Decode(rc)
		rc.Close()
		if err != nil {
			if errors.Is(err, imaging.ErrUnsupportedFormat) {
				return nil, domain.NewValidationError("stored file is not a decodable image", nil)
			}
			return nil, domain.NewStorageError("download", "read stored photo", err)
		}

		if err := r.db.WithContext(ctx).Model(row).Updates(map[string]any{
			"width":  dims.Width,
			"height": dims.Height,
		}).Error; err != nil {
			return nil, translate(err, photoEntity, id, "store photo dimensions")
		}
		return r.reload(ctx, id)
	})
}

// delete removes one photo. The first return value reports a failed object
// delete for a photo whose row was nevertheless removed.
func (r *PhotoRepository) delete(ctx context.Context, id string) (*domain.Error, *domain.Error) {
	row, derr := r.load(ctx, id)
	if derr != nil {
		return nil, derr
	}

	var storageErr *domain.Error
	if err := r.bucket.Delete(ctx, row.StorageKey); err != nil {
		storageErr = domain.NewStorageError("delete", "delete stored photo", err)
		r.log.Warn("stored photo could not be deleted",
			logger.PhotoID(id),
			logger.StorageKey(row.StorageKey),
			zap.Error(err),
		)
	}
	r.removeObject(ctx, thumbnailKey(row.StorageKey))

	if err := r.db.WithContext(ctx).Delete(&db.Photo{}, "id = ?", id).Error; err != nil {
		return nil, domain.NewDatabaseError("delete photo", err)
	}
	r.log.Info("photo deleted", logger.PhotoID(id), logger.GalleryID(row.GalleryID))
	return storageErr, nil
}

func (r *PhotoRepository) signedURL(ctx context.Context, storageKey string, ttl time.Duration) (string, error) {
	key, derr := cleanStorageKey(storageKey)
	if derr != nil {
		return "", derr
	}
	if ttl <= 0 {
		ttl = r.ttl
	}
	url, err := r.bucket.SignedURL(ctx, key, ttl)
	if err != nil {
		return "", domain.NewStorageError("sign", "sign photo url", err)
	}
	return url, nil
}

func (r *PhotoRepository) load(ctx context.Context, id string) (*db.Photo, *domain.Error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.NewValidationError("", map[string]string{"id": "is required"})
	}
	var row db.Photo
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, translate(err, photoEntity, id, "find photo")
	}
	return &row, nil
}

func (r *PhotoRepository) reload(ctx context.Context, id string) (*domain.Photo, error) {
	row, derr := r.load(ctx, id)
	if derr != nil {
		return nil, derr
	}
	p := photoFromRow(*row)
	return &p, nil
}

func (r *PhotoRepository) loadGallery(ctx context.Context, id string) (*db.Gallery, *domain.Error) {
	var row db.Gallery
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, translate(err, galleryEntity, id, "find gallery")
	}
	return &row, nil
}

// resolveOrder returns the requested order, or one past the gallery's
// current maximum.
func (r *PhotoRepository) resolveOrder(ctx context.Context, galleryID string, requested *int) (int, *domain.Error) {
	if requested != nil {
		return *requested, nil
	}
	var maxOrder int
	if err := r.db.WithContext(ctx).Model(&db.Photo{}).
		Where("gallery_id = ?", galleryID).
		Select("COALESCE(MAX(display_order), -1)").
		Scan(&maxOrder).Error; err != nil {
		return 0, domain.NewDatabaseError("resolve photo order", err)
	}
	return maxOrder + 1, nil
}

// removeObject is a best-effort cleanup.
func (r *PhotoRepository) removeObject(ctx context.Context, key string) {
	if err := r.bucket.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		r.log.Warn("cleanup of stored object failed", logger.StorageKey(key), zap.Error(err))
	}
}

func cleanStorageKey(key string) (string, *domain.Error) {
	clean, err := storage.CleanKey(key)
	if err != nil {
		return "", domain.NewValidationError("", map[string]string{"storageKey": "is invalid"})
	}
	return clean, nil
}
