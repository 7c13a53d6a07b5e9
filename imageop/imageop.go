// Package imageop holds the image filters shared by screenshots and preset
// thumbnails.
package imageop

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"

	"golang.org/x/image/draw"
)

// Reduce scales img down so that its longer side is at most maxLen. Images
// already small enough are returned unchanged.
func Reduce(img image.Image, maxLen int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxLen <= 0 || (w <= maxLen && h <= maxLen) {
		return img
	}
	scale := float64(maxLen) / float64(max(w, h))
	dw := max(1, int(math.Round(float64(w)*scale)))
	dh := max(1, int(math.Round(float64(h)*scale)))
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Crop keeps the centered region covering xScale by yScale of img and then
// reduces it to maxLen.
func Crop(img image.Image, xScale, yScale float64, maxLen int) image.Image {
	b := img.Bounds()
	cw := clampDim(float64(b.Dx())*xScale, b.Dx())
	ch := clampDim(float64(b.Dy())*yScale, b.Dy())
	x0 := b.Min.X + (b.Dx()-cw)/2
	y0 := b.Min.Y + (b.Dy()-ch)/2
	src := image.Rect(x0, y0, x0+cw, y0+ch)

	dst := image.NewRGBA(image.Rect(0, 0, cw, ch))
	draw.Copy(dst, image.Point{}, img, src, draw.Src, nil)
	return Reduce(dst, maxLen)
}

func clampDim(v float64, limit int) int {
	n := int(math.Round(v))
	if n < 1 {
		return 1
	}
	if n > limit {
		return limit
	}
	return n
}

// Encode writes img as "PNG" or "JPEG".
func Encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case "PNG":
		err = png.Encode(&buf, img)
	case "JPEG":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
	default:
		return nil, fmt.Errorf("unknown image format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Thumbnail decodes an encoded image and re-encodes it as a JPEG whose
// longer side is at most maxLen.
func Thumbnail(data []byte, maxLen int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	return Encode(Reduce(img, maxLen), "JPEG")
}
