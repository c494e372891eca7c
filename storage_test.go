package benang

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func encodePNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return &buf
}

func TestProcessImageResizesWideImages(t *testing.T) {
	data, w, h, err := processImage(encodePNG(t, 2400, 1200))
	if err != nil {
		t.Fatalf("processImage failed: %v", err)
	}
	if w != maxImageWidth || h != 600 {
		t.Errorf("dimensions = %dx%d, want %dx600", w, h, maxImageWidth)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a decodable jpeg: %v", err)
	}
	if img.Bounds().Dx() != maxImageWidth {
		t.Errorf("encoded width = %d, want %d", img.Bounds().Dx(), maxImageWidth)
	}
}

func TestProcessImageKeepsSmallImages(t *testing.T) {
	_, w, h, err := processImage(encodePNG(t, 640, 480))
	if err != nil {
		t.Fatalf("processImage failed: %v", err)
	}
	if w != 640 || h != 480 {
		t.Errorf("dimensions = %dx%d, want 640x480 untouched", w, h)
	}
}

func TestProcessImageRejectsGarbage(t *testing.T) {
	if _, _, _, err := processImage(strings.NewReader("not an image")); err == nil {
		t.Fatal("expected an error for non-image input")
	}
}
