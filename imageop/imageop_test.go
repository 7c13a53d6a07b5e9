package imageop_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"smoothlife-panel/imageop"
)

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	return img
}

func TestReduceKeepsAspect(t *testing.T) {
	got := imageop.Reduce(solid(400, 200), 100).Bounds()
	if got.Dx() != 100 || got.Dy() != 50 {
		t.Fatalf("expected 100x50, got %dx%d", got.Dx(), got.Dy())
	}
}

func TestReduceSmallImageUnchanged(t *testing.T) {
	img := solid(10, 10)
	if imageop.Reduce(img, 100) != image.Image(img) {
		t.Fatal("expected the same image back")
	}
}

func TestCropCenter(t *testing.T) {
	got := imageop.Crop(solid(200, 100), 0.5, 0.5, 1000).Bounds()
	if got.Dx() != 100 || got.Dy() != 50 {
		t.Fatalf("expected 100x50, got %dx%d", got.Dx(), got.Dy())
	}
}

func TestThumbnail(t *testing.T) {
	png, err := imageop.Encode(solid(300, 300), "PNG")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	thumb, err := imageop.Thumbnail(png, 128)
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("thumbnail is not a JPEG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 128 || b.Dy() != 128 {
		t.Fatalf("expected 128x128, got %v", b)
	}

	if _, err := imageop.Thumbnail([]byte("nope"), 128); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	if _, err := imageop.Encode(solid(1, 1), "GIF"); err == nil {
		t.Fatal("expected error for GIF")
	}
}
