package repository

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/lensfolio/internal/domain"
)

const (
	// DefaultMaxUploadBytes caps a single photo upload.
	DefaultMaxUploadBytes int64 = 25 << 20

	sniffLen = 3072
)

// DefaultAllowedMimeTypes lists the photo formats accepted by Upload.
var DefaultAllowedMimeTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/gif",
	"image/heic",
	"image/heif",
	"image/avif",
}

// ErrFileTooLarge is the cause of a file upload error raised by the size cap.
var ErrFileTooLarge = errors.New("file exceeds upload limit")

// UploadLimits bounds what Upload accepts.
type UploadLimits struct {
	MaxBytes         int64
	AllowedMimeTypes []string
}

func (l UploadLimits) withDefaults() UploadLimits {
	if l.MaxBytes <= 0 {
		l.MaxBytes = DefaultMaxUploadBytes
	}
	if len(l.AllowedMimeTypes) == 0 {
		l.AllowedMimeTypes = DefaultAllowedMimeTypes
	}
	return l
}

// sniff reads the head of the file and matches its detected type against
// the allow list. The returned header must be replayed before the rest of r.
func (l UploadLimits) sniff(r io.Reader) ([]byte, string, *domain.Error) {
	header := make([]byte, sniffLen)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, "", domain.NewFileUploadError("could not read file", err)
	}
	if n == 0 {
		return nil, "", domain.NewFileUploadError("file is empty", nil)
	}
	header = header[:n]

	detected := mimetype.Detect(header)
	for _, allowed := range l.AllowedMimeTypes {
		if detected.Is(allowed) {
			return header, allowed, nil
		}
	}
	return nil, "", domain.NewFileUploadError(
		fmt.Sprintf("file type %s is not allowed", detected.String()),
		nil,
	)
}

// meteredReader enforces the size cap while streaming and reports advisory
// progress.
type meteredReader struct {
	r          io.Reader
	max        int64
	total      int64
	read       int64
	lastReport int
	onProgress domain.ProgressFunc
}

func (m *meteredReader) Read(p []byte) (int, error) {
	n, err := m.r.Read(p)
	m.read += int64(n)
	if m.read > m.max {
		return n, ErrFileTooLarge
	}
	if m.onProgress != nil && m.total > 0 {
		pct := int(m.read * 100 / m.total)
		if pct > 99 {
			pct = 99
		}
		if pct >= m.lastReport+10 {
			m.lastReport = pct
			m.onProgress(domain.UploadProgress{Stage: domain.UploadUploading, Percent: pct})
		}
	}
	return n, err
}

// storageKey places an upload under its gallery. The upload time and a
// random token keep repeated names apart.
func storageKey(galleryID string, at time.Time, token, fileName string) string {
	return fmt.Sprintf("galleries/%s/%d-%s-%s", sanitizeSegment(galleryID), at.UnixMilli(), sanitizeSegment(token), sanitizeFileName(fileName))
}

func thumbnailKey(key string) string {
	return "thumbnails/" + strings.TrimLeft(key, "/")
}

func sanitizeFileName(name string) string {
	ext := strings.ToLower(path.Ext(name))
	base := sanitizeSegment(strings.TrimSuffix(name, path.Ext(name)))
	if base == "" {
		base = "photo"
	}
	ext = sanitizeSegment(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return base
	}
	return base + "." + ext
}

func sanitizeSegment(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}
	out := b.String()
	if len(out) > 80 {
		out = out[:80]
	}
	return out
}
