package validation

import (
	"html"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/lensfolio/internal/domain"
	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// Slugify derives a URL-safe slug from free text: lowercase ASCII letters and
// digits separated by single hyphens.
func Slugify(text string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

const maxSanitizePasses = 4

// PlainText strips markup from user supplied text and trims it. Entities are
// decoded before every pass, so markup sent entity-encoded is stripped as
// well. Text that still changes after the last pass is kept escaped.
func PlainText(text string) string {
	for i := 0; i < maxSanitizePasses; i++ {
		cleaned := html.UnescapeString(strictPolicy.Sanitize(html.UnescapeString(text)))
		if cleaned == text {
			return strings.TrimSpace(cleaned)
		}
		text = cleaned
	}
	return strings.TrimSpace(strictPolicy.Sanitize(text))
}

// CreateGallery normalises and validates a gallery creation input.
func CreateGallery(input domain.CreateGalleryInput) (domain.CreateGalleryInput, *domain.Error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Slug = strings.ToLower(strings.TrimSpace(input.Slug))
	if input.Slug == "" {
		input.Slug = Slugify(input.Title)
	}
	input.Category = domain.GalleryCategory(strings.ToLower(strings.TrimSpace(string(input.Category))))
	if input.Category == "" {
		input.Category = domain.CategoryOther
	}
	input.CoverPhotoID = trimmedOrNil(input.CoverPhotoID)

	if err := Struct(input); err != nil {
		return input, err
	}
	return input, nil
}

// UpdateGallery normalises and validates a partial gallery update.
func UpdateGallery(input domain.UpdateGalleryInput) (domain.UpdateGalleryInput, *domain.Error) {
	input.Title = trimmed(input.Title)
	input.Description = trimmed(input.Description)
	if input.Slug != nil {
		slug := strings.ToLower(strings.TrimSpace(*input.Slug))
		input.Slug = &slug
	}
	if input.Category != nil {
		category := domain.GalleryCategory(strings.ToLower(strings.TrimSpace(string(*input.Category))))
		input.Category = &category
	}
	input.CoverPhotoID = trimmedOrNil(input.CoverPhotoID)

	if err := Struct(input); err != nil {
		return input, err
	}
	if input.Slug != nil && *input.Slug == "" {
		return input, domain.NewValidationError("", map[string]string{"slug": "is required"})
	}
	return input, nil
}

// UploadPhoto normalises and validates the descriptive part of an upload.
// File type and size checks live with the uploader.
func UploadPhoto(input domain.UploadPhotoInput) (domain.UploadPhotoInput, *domain.Error) {
	input.GalleryID = strings.TrimSpace(input.GalleryID)
	input.FileName = strings.TrimSpace(filepath.Base(strings.ReplaceAll(input.FileName, "\\", "/")))
	if input.FileName == "." || input.FileName == "/" {
		input.FileName = ""
	}
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" && input.FileName != "" {
		input.Title = strings.TrimSuffix(input.FileName, filepath.Ext(input.FileName))
	}
	input.Description = trimmedOrNil(input.Description)
	input.ContentType = strings.ToLower(strings.TrimSpace(input.ContentType))

	if err := Struct(input); err != nil {
		return input, err
	}
	return input, nil
}

// UpdatePhoto normalises and validates a partial photo update.
func UpdatePhoto(input domain.UpdatePhotoInput) (domain.UpdatePhotoInput, *domain.Error) {
	input.Title = trimmed(input.Title)
	input.Description = trimmed(input.Description)
	if err := Struct(input); err != nil {
		return input, err
	}
	return input, nil
}

// MovePhoto validates a move request.
func MovePhoto(input domain.MovePhotoInput) (domain.MovePhotoInput, *domain.Error) {
	input.PhotoID = strings.TrimSpace(input.PhotoID)
	input.TargetGalleryID = strings.TrimSpace(input.TargetGalleryID)
	if err := Struct(input); err != nil {
		return input, err
	}
	return input, nil
}

// CreateInquiry normalises, sanitises and validates a contact submission.
func CreateInquiry(input domain.CreateInquiryInput) (domain.CreateInquiryInput, *domain.Error) {
	input.Name = PlainText(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Subject = PlainText(input.Subject)
	input.Message = PlainText(input.Message)
	if input.Phone != nil {
		phone := PlainText(*input.Phone)
		input.Phone = &phone
	}
	input.Phone = trimmedOrNil(input.Phone)
	input.InquiryType = domain.InquiryType(strings.ToLower(strings.TrimSpace(string(input.InquiryType))))
	if input.InquiryType == "" {
		input.InquiryType = domain.InquiryGeneral
	}
	input.Source = strings.TrimSpace(input.Source)
	if input.Source == "" {
		input.Source = "website"
	}

	if err := Struct(input); err != nil {
		return input, err
	}
	return input, nil
}

// UpdateInquiry validates an admin triage update.
func UpdateInquiry(input domain.UpdateInquiryInput) (domain.UpdateInquiryInput, *domain.Error) {
	if input.Status != nil {
		status := domain.InquiryStatus(strings.ToLower(strings.TrimSpace(string(*input.Status))))
		input.Status = &status
	}
	if err := Struct(input); err != nil {
		return input, err
	}
	return input, nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	return &v
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
