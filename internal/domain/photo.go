package domain

import (
	"io"
	"time"
)

// Photo is an image stored in the object store and owned by one gallery.
// Width and Height stay zero until the photo is enriched.
type Photo struct {
	ID           string         `json:"id"`
	GalleryID    string         `json:"galleryId"`
	Title        string         `json:"title"`
	Description  *string        `json:"description"`
	URL          string         `json:"url"`
	ThumbnailURL string         `json:"thumbnailUrl"`
	StorageKey   string         `json:"storageKey"`
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	FileSize     int64          `json:"fileSize"`
	MimeType     string         `json:"mimeType"`
	DisplayOrder int            `json:"displayOrder"`
	IsPublished  bool           `json:"isPublished"`
	Metadata     map[string]any `json:"metadata"`
	UploadedAt   time.Time      `json:"uploadedAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// UploadPhotoInput describes a file to store and register. Size is the
// declared length of File; the stream is also capped while uploading.
type UploadPhotoInput struct {
	GalleryID    string         `json:"galleryId" validate:"required"`
	Title        string         `json:"title" validate:"max=200"`
	Description  *string        `json:"description" validate:"omitempty,max=2000"`
	FileName     string         `json:"fileName" validate:"required,max=255"`
	ContentType  string         `json:"contentType" validate:"max=100"`
	Size         int64          `json:"size" validate:"min=0"`
	File         io.Reader      `json:"-" validate:"required"`
	DisplayOrder *int           `json:"displayOrder" validate:"omitempty,min=0"`
	IsPublished  *bool          `json:"isPublished"`
	Metadata     map[string]any `json:"metadata"`
}

// UpdatePhotoInput is a partial update; nil fields are left unchanged. A
// non-nil Metadata replaces the stored bag.
type UpdatePhotoInput struct {
	Title        *string        `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string        `json:"description" validate:"omitempty,max=2000"`
	DisplayOrder *int           `json:"displayOrder" validate:"omitempty,min=0"`
	IsPublished  *bool          `json:"isPublished"`
	Metadata     map[string]any `json:"metadata"`
}

// MovePhotoInput reassigns a photo to another gallery.
type MovePhotoInput struct {
	PhotoID         string `json:"photoId" validate:"required"`
	TargetGalleryID string `json:"targetGalleryId" validate:"required"`
	DisplayOrder    *int   `json:"displayOrder" validate:"omitempty,min=0"`
}

// PhotoFilter narrows FindAll. Default order is display_order ascending.
type PhotoFilter struct {
	GalleryID   *string `json:"galleryId,omitempty"`
	IsPublished *bool   `json:"isPublished,omitempty"`
	StorageKey  *string `json:"storageKey,omitempty"`
	ListOptions
}

// UploadStage names a step reported to an upload progress callback.
type UploadStage string

const (
	UploadValidating UploadStage = "validating"
	UploadUploading  UploadStage = "uploading"
	UploadSaving     UploadStage = "saving"
	UploadDone       UploadStage = "done"
)

// UploadProgress is passed to a ProgressFunc.
type UploadProgress struct {
	Stage   UploadStage `json:"stage"`
	Percent int         `json:"percent"`
}

// ProgressFunc receives advisory upload progress. It must not block.
type ProgressFunc func(UploadProgress)
