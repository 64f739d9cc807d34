package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := NewNotFoundError("gallery", "abc")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found error to match sentinel")
	}
	if errors.Is(err, ErrConflict) {
		t.Fatalf("not found error must not match conflict")
	}

	wrapped := fmt.Errorf("handler: %w", NewConflictError("slug taken", "slug"))
	if !errors.Is(wrapped, ErrConflict) {
		t.Fatalf("expected wrapped conflict to match")
	}
	if kind, ok := KindOf(wrapped); !ok || kind != KindConflict {
		t.Fatalf("expected conflict kind, got %q", kind)
	}
}

func TestErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("disk quota exceeded")
	err := NewStorageError("upload", "upload photo", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
	if err.Error() != "upload photo: disk quota exceeded" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if err.Operation != "upload" {
		t.Fatalf("expected operation upload, got %q", err.Operation)
	}
}

func TestValidationErrorSummarisesFields(t *testing.T) {
	err := NewValidationError("", map[string]string{"title": "is required", "slug": "is invalid"})
	if err.Message != "invalid input: slug, title" {
		t.Fatalf("unexpected summary %q", err.Message)
	}
	if !IsKind(err, KindValidation) {
		t.Fatalf("expected validation kind")
	}
}

func TestEnumsValidate(t *testing.T) {
	if !CategoryWedding.Valid() || GalleryCategory("birthday").Valid() {
		t.Fatalf("unexpected category validity")
	}
	if !InquiryStatusSpam.Valid() || InquiryStatus("open").Valid() {
		t.Fatalf("unexpected status validity")
	}
	if !InquiryBooking.Valid() || InquiryType("").Valid() {
		t.Fatalf("unexpected type validity")
	}
}
