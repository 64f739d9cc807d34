package repository

import (
	"github.com/lensfolio/internal/db"
	"github.com/lensfolio/internal/domain"
)

func galleryFromRow(row db.Gallery) domain.Gallery {
	return domain.Gallery{
		ID:           row.ID,
		Title:        row.Title,
		Slug:         row.Slug,
		Description:  row.Description,
		Category:     domain.GalleryCategory(row.Category),
		CoverPhotoID: row.CoverPhotoID,
		DisplayOrder: row.DisplayOrder,
		IsPublished:  row.IsPublished,
		PhotoCount:   row.PhotoCount,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func galleriesFromRows(rows []db.Gallery) []domain.Gallery {
	items := make([]domain.Gallery, 0, len(rows))
	for _, row := range rows {
		items = append(items, galleryFromRow(row))
	}
	return items
}

func photoFromRow(row db.Photo) domain.Photo {
	metadata := row.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return domain.Photo{
		ID:           row.ID,
		GalleryID:    row.GalleryID,
		Title:        row.Title,
		Description:  row.Description,
		URL:          row.URL,
		ThumbnailURL: row.ThumbnailURL,
		StorageKey:   row.StorageKey,
		Width:        row.Width,
		Height:       row.Height,
		FileSize:     row.FileSize,
		MimeType:     row.MimeType,
		DisplayOrder: row.DisplayOrder,
		IsPublished:  row.IsPublished,
		Metadata:     metadata,
		UploadedAt:   row.UploadedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func photosFromRows(rows []db.Photo) []domain.Photo {
	items := make([]domain.Photo, 0, len(rows))
	for _, row := range rows {
		items = append(items, photoFromRow(row))
	}
	return items
}

func inquiryFromRow(row db.Inquiry) domain.Inquiry {
	metadata := row.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return domain.Inquiry{
		ID:          row.ID,
		Name:        row.Name,
		Email:       row.Email,
		Phone:       row.Phone,
		Subject:     row.Subject,
		Message:     row.Message,
		InquiryType: domain.InquiryType(row.InquiryType),
		Status:      domain.InquiryStatus(row.Status),
		Source:      row.Source,
		Metadata:    metadata,
		SubmittedAt: row.SubmittedAt,
		RespondedAt: row.RespondedAt,
		ResolvedAt:  row.ResolvedAt,
	}
}

func inquiriesFromRows(rows []db.Inquiry) []domain.Inquiry {
	items := make([]domain.Inquiry, 0, len(rows))
	for _, row := range rows {
		items = append(items, inquiryFromRow(row))
	}
	return items
}
