package domain

import "time"

// GalleryCategory classifies a gallery for filtering on the public site.
type GalleryCategory string

const (
	CategoryWedding    GalleryCategory = "wedding"
	CategoryPortrait   GalleryCategory = "portrait"
	CategoryFamily     GalleryCategory = "family"
	CategoryEngagement GalleryCategory = "engagement"
	CategoryEvent      GalleryCategory = "event"
	CategoryLandscape  GalleryCategory = "landscape"
	CategoryCommercial GalleryCategory = "commercial"
	CategoryOther      GalleryCategory = "other"
)

// GalleryCategories lists every accepted category.
var GalleryCategories = []GalleryCategory{
	CategoryWedding,
	CategoryPortrait,
	CategoryFamily,
	CategoryEngagement,
	CategoryEvent,
	CategoryLandscape,
	CategoryCommercial,
	CategoryOther,
}

// Valid reports whether c is one of GalleryCategories.
func (c GalleryCategory) Valid() bool {
	for _, known := range GalleryCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Gallery is a published or draft collection of photos. PhotoCount is a
// cached value refreshed by GalleryRepository.UpdatePhotoCount.
type Gallery struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Slug         string          `json:"slug"`
	Description  string          `json:"description"`
	Category     GalleryCategory `json:"category"`
	CoverPhotoID *string         `json:"coverPhotoId"`
	DisplayOrder int             `json:"displayOrder"`
	IsPublished  bool            `json:"isPublished"`
	PhotoCount   int             `json:"photoCount"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// GalleryWithPhotos is a gallery joined with its photos in display order.
// LivePhotoCount is len(Photos) at read time; PhotoCount is the cached value.
type GalleryWithPhotos struct {
	Gallery
	Photos         []Photo `json:"photos"`
	LivePhotoCount int     `json:"livePhotoCount"`
}

// CreateGalleryInput holds the fields accepted when creating a gallery. An
// empty Slug is derived from Title.
type CreateGalleryInput struct {
	Title        string          `json:"title" validate:"required,max=200"`
	Slug         string          `json:"slug" validate:"required,max=120,slug"`
	Description  string          `json:"description" validate:"max=5000"`
	Category     GalleryCategory `json:"category" validate:"required,gallery_category"`
	CoverPhotoID *string         `json:"coverPhotoId" validate:"omitempty,min=1"`
	DisplayOrder *int            `json:"displayOrder" validate:"omitempty,min=0"`
	IsPublished  *bool           `json:"isPublished"`
}

// UpdateGalleryInput is a partial update; nil fields are left unchanged.
// ClearCoverPhoto removes the cover reference.
type UpdateGalleryInput struct {
	Title           *string          `json:"title" validate:"omitempty,min=1,max=200"`
	Slug            *string          `json:"slug" validate:"omitempty,max=120,slug"`
	Description     *string          `json:"description" validate:"omitempty,max=5000"`
	Category        *GalleryCategory `json:"category" validate:"omitempty,gallery_category"`
	CoverPhotoID    *string          `json:"coverPhotoId" validate:"omitempty,min=1"`
	ClearCoverPhoto bool             `json:"clearCoverPhoto"`
	DisplayOrder    *int             `json:"displayOrder" validate:"omitempty,min=0"`
	IsPublished     *bool            `json:"isPublished"`
}

// GalleryFilter narrows FindAll. Default order is display_order ascending.
type GalleryFilter struct {
	Category    *GalleryCategory `json:"category,omitempty"`
	IsPublished *bool            `json:"isPublished,omitempty"`
	ListOptions
}
