package validation

import (
	"strings"
	"testing"

	"github.com/lensfolio/internal/domain"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Kona Wedding":            "kona-wedding",
		"  Big Island -- Sunrise ": "big-island-sunrise",
		"Café & Co. 2024":         "caf-co-2024",
		"!!!":                     "",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCreateGalleryNormalises(t *testing.T) {
	input, err := CreateGallery(domain.CreateGalleryInput{
		Title:    "  Kona Wedding ",
		Category: "Wedding",
	})
	if err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	if input.Title != "Kona Wedding" {
		t.Fatalf("expected trimmed title, got %q", input.Title)
	}
	if input.Slug != "kona-wedding" {
		t.Fatalf("expected derived slug, got %q", input.Slug)
	}
	if input.Category != domain.CategoryWedding {
		t.Fatalf("expected lowercased category, got %q", input.Category)
	}
}

func TestCreateGalleryReportsFieldErrors(t *testing.T) {
	_, err := CreateGallery(domain.CreateGalleryInput{
		Title:    "",
		Slug:     "Not A Slug!",
		Category: "birthday",
	})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if err.Kind != domain.KindValidation {
		t.Fatalf("expected validation kind, got %s", err.Kind)
	}
	for _, field := range []string{"title", "slug", "category"} {
		if _, ok := err.Fields[field]; !ok {
			t.Fatalf("expected error for %s, got %v", field, err.Fields)
		}
	}
	if !strings.Contains(err.Fields["category"], "wedding") {
		t.Fatalf("expected category message to list options, got %q", err.Fields["category"])
	}
}

func TestUpdateGalleryRejectsEmptyTitle(t *testing.T) {
	empty := "   "
	_, err := UpdateGallery(domain.UpdateGalleryInput{Title: &empty})
	if err == nil {
		t.Fatalf("expected error for blank title")
	}
	if _, ok := err.Fields["title"]; !ok {
		t.Fatalf("expected title field error, got %v", err.Fields)
	}

	if _, err := UpdateGallery(domain.UpdateGalleryInput{}); err != nil {
		t.Fatalf("empty update should be valid: %v", err)
	}
}

func TestCreateInquirySanitisesAndDefaults(t *testing.T) {
	input, err := CreateInquiry(domain.CreateInquiryInput{
		Name:    "<b>Leilani</b>",
		Email:   " Leilani@Example.COM ",
		Subject: "Sunset session",
		Message: "<script>alert(1)</script>We would love a beach shoot & dinner.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if input.Name != "Leilani" {
		t.Fatalf("expected markup stripped, got %q", input.Name)
	}
	if input.Email != "leilani@example.com" {
		t.Fatalf("expected lowercased email, got %q", input.Email)
	}
	if strings.Contains(input.Message, "script") || !strings.Contains(input.Message, "& dinner") {
		t.Fatalf("unexpected sanitised message %q", input.Message)
	}
	if input.InquiryType != domain.InquiryGeneral || input.Source != "website" {
		t.Fatalf("expected defaults, got %q / %q", input.InquiryType, input.Source)
	}
}

func TestPlainTextStripsEncodedMarkup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "  Tom & Jerry  ", "Tom & Jerry"},
		{"comparison", "1 < 2", "1 < 2"},
		{"tags", "<b>bold</b> move", "bold move"},
		{"encoded script", "&lt;script&gt;alert(1)&lt;/script&gt;", ""},
		{"encoded img", "&lt;img src=x onerror=alert(1)&gt; hello there", "hello there"},
		{"double encoded", "&amp;lt;b&amp;gt;hi&amp;lt;/b&amp;gt;", "hi"},
		{"split tag", "<<b>script>alert(1)</b>", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlainText(tt.input)
			if got != tt.want {
				t.Fatalf("PlainText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCreateInquiryRejectsBadEmail(t *testing.T) {
	_, err := CreateInquiry(domain.CreateInquiryInput{
		Name:    "Kai",
		Email:   "not-an-email",
		Subject: "Hello",
		Message: "Just saying hello there.",
	})
	if err == nil || err.Fields["email"] == "" {
		t.Fatalf("expected email field error, got %v", err)
	}
}

func TestUploadPhotoDefaultsTitleFromFileName(t *testing.T) {
	input, err := UploadPhoto(domain.UploadPhotoInput{
		GalleryID: "g1",
		FileName:  "../../etc/sunset.JPG",
		File:      strings.NewReader("x"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if input.FileName != "sunset.JPG" || input.Title != "sunset" {
		t.Fatalf("unexpected normalisation: %q / %q", input.FileName, input.Title)
	}

	_, err = UploadPhoto(domain.UploadPhotoInput{GalleryID: "g1", FileName: "a.jpg"})
	if err == nil || err.Fields["File"] == "" {
		t.Fatalf("expected missing file error, got %v", err)
	}
}

func TestUpdateInquiryRejectsUnknownStatus(t *testing.T) {
	status := domain.InquiryStatus("Closed")
	_, err := UpdateInquiry(domain.UpdateInquiryInput{Status: &status})
	if err == nil || err.Fields["status"] == "" {
		t.Fatalf("expected status error, got %v", err)
	}
}
