package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/lensfolio/internal/db"
	"github.com/lensfolio/internal/domain"
	"github.com/lensfolio/internal/logger"
	"github.com/lensfolio/internal/validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const galleryEntity = "gallery"

var galleryListScope = listScope{
	columns:      columnSet("display_order", "created_at", "updated_at", "title", "slug", "photo_count"),
	defaultOrder: "display_order",
	tiebreak:     "created_at",
	dateColumn:   "created_at",
}

// PhotoBatchDeleter removes photos together with their stored objects. The
// gallery repository uses it to cascade deletes.
type PhotoBatchDeleter interface {
	DeleteBatch(ctx context.Context, ids []string) domain.Result[domain.BatchOutcome]
}

// GalleryRepository implements domain.GalleryRepository with GORM.
type GalleryRepository struct {
	db     *gorm.DB
	photos PhotoBatchDeleter
	log    *zap.Logger
}

var _ domain.GalleryRepository = (*GalleryRepository)(nil)

// NewGalleryRepository creates a GalleryRepository. photos is required for
// cascading deletes.
func NewGalleryRepository(gdb *gorm.DB, photos PhotoBatchDeleter, log *zap.Logger) *GalleryRepository {
	return &GalleryRepository{db: gdb, photos: photos, log: logger.OrNop(log).Named("galleries")}
}

// FindByID fetches a gallery by id.
func (r *GalleryRepository) FindByID(ctx context.Context, id string) domain.Result[*domain.Gallery] {
	return run(func() (*domain.Gallery, error) {
		row, derr := r.load(ctx, id)
		if derr != nil {
			return nil, derr
		}
		g := galleryFromRow(*row)
		return &g, nil
	})
}

// FindBySlug fetches a gallery by its slug.
func (r *GalleryRepository) FindBySlug(ctx context.Context, slug string) domain.Result[*domain.Gallery] {
	return run(func() (*domain.Gallery, error) {
		slug = strings.ToLower(strings.TrimSpace(slug))
		if derr := validation.Slug(slug); derr != nil {
			return nil, derr
		}
		var row db.Gallery
		if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&row).Error; err != nil {
			return nil, translate(err, galleryEntity, slug, "find gallery by slug")
		}
		g := galleryFromRow(row)
		return &g, nil
	})
}

// FindByIDWithPhotos fetches a gallery and its photos in display order.
func (r *GalleryRepository) FindByIDWithPhotos(ctx context.Context, id string) domain.Result[*domain.GalleryWithPhotos] {
	return run(func() (*domain.GalleryWithPhotos, error) {
		row, derr := r.load(ctx, id)
		if derr != nil {
			return nil, derr
		}

		var photos []db.Photo
		if err := r.db.WithContext(ctx).
			Where("gallery_id = ?", id).
			Order("display_order ASC").Order("uploaded_at ASC").Order("id ASC").
			Find(&photos).Error; err != nil {
			return nil, domain.NewDatabaseError("list gallery photos", err)
		}

		return &domain.GalleryWithPhotos{
			Gallery:        galleryFromRow(*row),
			Photos:         photosFromRows(photos),
			LivePhotoCount: len(photos),
		}, nil
	})
}

// FindAll lists galleries matching filter.
func (r *GalleryRepository) FindAll(ctx context.Context, filter domain.GalleryFilter) domain.Result[[]domain.Gallery] {
	return run(func() ([]domain.Gallery, error) {
		query := r.db.WithContext(ctx).Model(&db.Gallery{})
		if filter.Category != nil {
			query = query.Where("category = ?", strings.ToLower(string(*filter.Category)))
		}
		if filter.IsPublished != nil {
			query = query.Where("is_published = ?", *filter.IsPublished)
		}

		query, derr := galleryListScope.apply(query, filter.ListOptions)
		if derr != nil {
			return nil, derr
		}

		var rows []db.Gallery
		if err := query.Find(&rows).Error; err != nil {
			return nil, domain.NewDatabaseError("list galleries", err)
		}
		return galleriesFromRows(rows), nil
	})
}

// IsSlugAvailable reports whether slug is unused by any gallery except excludeID.
func (r *GalleryRepository) IsSlugAvailable(ctx context.Context, slug, excludeID string) domain.Result[bool] {
	return run(func() (bool, error) {
		slug = strings.ToLower(strings.TrimSpace(slug))
		if derr := validation.Slug(slug); derr != nil {
			return false, derr
		}
		available, derr := r.slugAvailable(ctx, slug, excludeID)
		if derr != nil {
			return false, derr
		}
		return available, nil
	})
}

// Create validates input, checks the slug and inserts a gallery with a zero
// photo count.
func (r *GalleryRepository) Create(ctx context.Context, input domain.CreateGalleryInput) domain.Result[*domain.Gallery] {
	return run(func() (*domain.Gallery, error) {
		input, derr := validation.CreateGallery(input)
		if derr != nil {
			return nil, derr
		}

		available, derr := r.slugAvailable(ctx, input.Slug, "")
		if derr != nil {
			return nil, derr
		}
		if !available {
			return nil, slugConflict(input.Slug)
		}

		row := db.Gallery{
			Title:        input.Title,
			Slug:         input.Slug,
			Description:  input.Description,
			Category:     string(input.Category),
			CoverPhotoID: input.CoverPhotoID,
			PhotoCount:   0,
		}
		if input.DisplayOrder != nil {
			row.DisplayOrder = *input.DisplayOrder
		}
		if input.IsPublished != nil {
			row.IsPublished = *input.IsPublished
		}

		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			derr := translate(err, galleryEntity, input.Slug, "create gallery")
			if derr.Kind == domain.KindConflict {
				return nil, slugConflict(input.Slug)
			}
			return nil, derr
		}

		r.log.Info("gallery created", logger.GalleryID(row.ID), zap.String("slug", row.Slug))
		g := galleryFromRow(row)
		return &g, nil
	})
}

// Update applies a partial update. A slug change is checked for availability
// first.
func (r *GalleryRepository) Update(ctx context.Context, id string, input domain.UpdateGalleryInput) domain.Result[*domain.Gallery] {
	return run(func() (*domain.Gallery, error) {
		input, derr := validation.UpdateGallery(input)
		if derr != nil {
			return nil, derr
		}

		row, derr := r.load(ctx, id)
		if derr != nil {
			return nil, derr
		}

		updates := map[string]any{}
		if input.Title != nil {
			updates["title"] = *input.Title
		}
		if input.Slug != nil && *input.Slug != row.Slug {
			available, derr := r.slugAvailable(ctx, *input.Slug, id)
			if derr != nil {
				return nil, derr
			}
			if !available {
				return nil, slugConflict(*input.Slug)
			}
			updates["slug"] = *input.Slug
		}
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.Category != nil {
			updates["category"] = string(*input.Category)
		}
		if input.ClearCoverPhoto {
			updates["cover_photo_id"] = nil
		} else if input.CoverPhotoID != nil {
			updates["cover_photo_id"] = *input.CoverPhotoID
		}
		if input.DisplayOrder != nil {
			updates["display_order"] = *input.DisplayOrder
		}
		if input.IsPublished != nil {
			updates["is_published"] = *input.IsPublished
		}

		if len(updates) > 0 {
			if err := r.db.WithContext(ctx).Model(row).Updates(updates).Error; err != nil {
				derr := translate(err, galleryEntity, id, "update gallery")
				if derr.Kind == domain.KindConflict && input.Slug != nil {
					return nil, slugConflict(*input.Slug)
				}
				return nil, derr
			}
		}

		fresh, derr := r.load(ctx, id)
		if derr != nil {
			return nil, derr
		}
		g := galleryFromRow(*fresh)
		return &g, nil
	})
}

// Delete removes a gallery. With deletePhotos its photos (rows and objects)
// are removed first and the gallery row is kept if any photo row survives.
// Without it, photo rows are left untouched and keep pointing at the
// removed gallery id.
func (r *GalleryRepository) Delete(ctx context.Context, id string, deletePhotos bool) domain.Result[struct{}] {
	return run(func() (struct{}, error) {
		if _, derr := r.load(ctx, id); derr != nil {
			return struct{}{}, derr
		}

		if deletePhotos {
			if derr := r.deleteOwnedPhotos(ctx, id); derr != nil {
				return struct{}{}, derr
			}
		}

		if err := r.db.WithContext(ctx).Delete(&db.Gallery{}, "id = ?", id).Error; err != nil {
			return struct{}{}, domain.NewDatabaseError("delete gallery", err)
		}
		r.log.Info("gallery deleted", logger.GalleryID(id), zap.Bool("cascade", deletePhotos))
		return struct{}{}, nil
	})
}

// UpdatePhotoCount recounts the gallery's photos and stores the value.
func (r *GalleryRepository) UpdatePhotoCount(ctx context.Context, id string) domain.Result[*domain.Gallery] {
	return run(func() (*domain.Gallery, error) {
		row, derr := r.load(ctx, id)
		if derr != nil {
			return nil, derr
		}

		var count int64
		if err := r.db.WithContext(ctx).Model(&db.Photo{}).Where("gallery_id = ?", id).Count(&count).Error; err != nil {
			return nil, domain.NewDatabaseError("count gallery photos", err)
		}
		if err := r.db.WithContext(ctx).Model(row).Update("photo_count", int(count)).Error; err != nil {
			return nil, domain.NewDatabaseError("update photo count", err)
		}

		row.PhotoCount = int(count)
		g := galleryFromRow(*row)
		return &g, nil
	})
}

// Reorder sets display_order to the position of each id, one write per id.
// Writes already made stay in place when a later one fails.
func (r *GalleryRepository) Reorder(ctx context.Context, galleryIDs []string) domain.Result[domain.ReorderOutcome] {
	return run(func() (domain.ReorderOutcome, error) {
		outcome := domain.ReorderOutcome{Updated: make([]string, 0, len(galleryIDs))}
		if derr := checkDistinct(galleryIDs, "galleryIds"); derr != nil {
			return outcome, derr
		}

		for index, id := range galleryIDs {
			res := r.db.WithContext(ctx).Model(&db.Gallery{}).Where("id = ?", id).Update("display_order", index)
			var derr *domain.Error
			switch {
			case res.Error != nil:
				derr = domain.NewDatabaseError("reorder galleries", res.Error)
			case res.RowsAffected == 0:
				derr = domain.NewNotFoundError(galleryEntity, id)
			}
			if derr != nil {
				if outcome.Failed == nil {
					outcome.Failed = map[string]*domain.Error{}
				}
				outcome.Failed[id] = derr
				r.log.Warn("gallery reorder step failed", logger.GalleryID(id), zap.Error(derr))
				continue
			}
			outcome.Updated = append(outcome.Updated, id)
		}

		if !outcome.OK() {
			return outcome, partialFailure("reorder galleries", galleryIDs, outcome.Failed, outcome)
		}
		return outcome, nil
	})
}

func (r *GalleryRepository) load(ctx context.Context, id string) (*db.Gallery, *domain.Error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.NewValidationError("", map[string]string{"id": "is required"})
	}
	var row db.Gallery
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, translate(err, galleryEntity, id, "find gallery")
	}
	return &row, nil
}

func (r *GalleryRepository) slugAvailable(ctx context.Context, slug, excludeID string) (bool, *domain.Error) {
	query := r.db.WithContext(ctx).Model(&db.Gallery{}).Where("slug = ?", slug)
	if excludeID = strings.TrimSpace(excludeID); excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, domain.NewDatabaseError("check slug availability", err)
	}
	return count == 0, nil
}

func (r *GalleryRepository) deleteOwnedPhotos(ctx context.Context, galleryID string) *domain.Error {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&db.Photo{}).Where("gallery_id = ?", galleryID).Pluck("id", &ids).Error; err != nil {
		return domain.NewDatabaseError("list gallery photos", err)
	}
	if len(ids) == 0 {
		return nil
	}
	if r.photos == nil {
		return domain.NewDatabaseError("cascade delete", fmt.Errorf("no photo repository configured"))
	}

	res := r.photos.DeleteBatch(ctx, ids)
	if res.IsSuccess() {
		return nil
	}
	outcome, ok := res.Err().Detail.(domain.BatchOutcome)
	if !ok {
		return res.Err()
	}

	deleted := make(map[string]bool, len(outcome.Deleted))
	for _, id := range outcome.Deleted {
		deleted[id] = true
	}
	for id, ferr := range outcome.Failed {
		if !deleted[id] {
			return ferr
		}
		// row is gone, only the stored object leaked
		r.log.Warn("photo object left behind by cascade", logger.GalleryID(galleryID), logger.PhotoID(id), zap.Error(ferr))
	}
	return nil
}

func slugConflict(slug string) *domain.Error {
	return domain.NewConflictError(fmt.Sprintf("slug %q is already in use", slug), "slug")
}

func checkDistinct(ids []string, field string) *domain.Error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return domain.NewValidationError("", map[string]string{field: "must not contain empty ids"})
		}
		if seen[id] {
			return domain.NewValidationError("", map[string]string{field: fmt.Sprintf("contains %q more than once", id)})
		}
		seen[id] = true
	}
	return nil
}

// partialFailure builds the error returned when some steps of a sequential
// batch failed. The outcome rides along as Detail; the kind is that of the
// first failed id in request order.
func partialFailure(action string, ids []string, failures map[string]*domain.Error, outcome any) *domain.Error {
	kind := domain.KindDatabase
	for _, id := range ids {
		if ferr, ok := failures[id]; ok {
			kind = ferr.Kind
			break
		}
	}
	return &domain.Error{
		Kind:    kind,
		Message: fmt.Sprintf("%s: %d of %d items failed", action, len(failures), len(ids)),
		Detail:  outcome,
	}
}
