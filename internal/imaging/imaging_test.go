package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func TestDecodePNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	img.Set(1, 1, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	dims, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dims.Width != 64 || dims.Height != 48 || dims.Format != "png" {
		t.Fatalf("unexpected dimensions %+v", dims)
	}
}

func TestDecodeRejectsUnknownData(t *testing.T) {
	if _, err := Decode(strings.NewReader("definitely not an image")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
}
