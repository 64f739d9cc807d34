package domain

import (
	"context"
	"time"
)

// GalleryRepository is the data access contract for galleries.
type GalleryRepository interface {
	FindByID(ctx context.Context, id string) Result[*Gallery]
	FindBySlug(ctx context.Context, slug string) Result[*Gallery]
	// FindByIDWithPhotos returns the gallery and its photos ordered by
	// display order ascending.
	FindByIDWithPhotos(ctx context.Context, id string) Result[*GalleryWithPhotos]
	FindAll(ctx context.Context, filter GalleryFilter) Result[[]Gallery]
	// IsSlugAvailable reports whether no gallery other than excludeID uses
	// slug. Pass an empty excludeID when creating.
	IsSlugAvailable(ctx context.Context, slug, excludeID string) Result[bool]
	Create(ctx context.Context, input CreateGalleryInput) Result[*Gallery]
	Update(ctx context.Context, id string, input UpdateGalleryInput) Result[*Gallery]
	// Delete removes the gallery. With deletePhotos the owned photos are
	// deleted first; otherwise they are left in place as orphans.
	Delete(ctx context.Context, id string, deletePhotos bool) Result[struct{}]
	// UpdatePhotoCount recounts the gallery's photos and stores the count.
	// Nothing calls it implicitly.
	UpdatePhotoCount(ctx context.Context, id string) Result[*Gallery]
	Reorder(ctx context.Context, galleryIDs []string) Result[ReorderOutcome]
}

// PhotoRepository is the data access contract for photos and their stored
// objects.
type PhotoRepository interface {
	FindByID(ctx context.Context, id string) Result[*Photo]
	FindByGallery(ctx context.Context, galleryID string) Result[[]Photo]
	FindAll(ctx context.Context, filter PhotoFilter) Result[[]Photo]
	Upload(ctx context.Context, input UploadPhotoInput, onProgress ProgressFunc) Result[*Photo]
	Update(ctx context.Context, id string, input UpdatePhotoInput) Result[*Photo]
	// Move reassigns the photo. Gallery photo counts are not refreshed.
	Move(ctx context.Context, input MovePhotoInput) Result[*Photo]
	Delete(ctx context.Context, id string) Result[struct{}]
	DeleteBatch(ctx context.Context, ids []string) Result[BatchOutcome]
	Reorder(ctx context.Context, galleryID string, photoIDs []string) Result[ReorderOutcome]
	GetPhotoURL(ctx context.Context, storageKey string, ttl time.Duration) Result[string]
	GetThumbnailURL(ctx context.Context, storageKey string, ttl time.Duration) Result[string]
	// EnrichDimensions reads the stored object and records its pixel size.
	EnrichDimensions(ctx context.Context, id string) Result[*Photo]
}

// InquiryRepository is the data access contract for contact inquiries.
type InquiryRepository interface {
	FindByID(ctx context.Context, id string) Result[*Inquiry]
	FindAll(ctx context.Context, filter InquiryFilter) Result[[]Inquiry]
	Create(ctx context.Context, input CreateInquiryInput) Result[*Inquiry]
	Update(ctx context.Context, id string, input UpdateInquiryInput) Result[*Inquiry]
	Delete(ctx context.Context, id string) Result[struct{}]
	MarkAsRead(ctx context.Context, id string) Result[*Inquiry]
	MarkAsSpam(ctx context.Context, id string) Result[*Inquiry]
	Search(ctx context.Context, query string) Result[[]Inquiry]
	GetStats(ctx context.Context) Result[InquiryStats]
}
