// Package imageprep decodes and measures screenshot regions for the engine.
package imageprep

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder

	xdraw "golang.org/x/image/draw"
)

// Downscale limits. Screenshots larger than MaxSide on their longest side
// are scaled down before OCR; the floor keeps tiny uploads readable.
const (
	DefaultMaxSide = 1100
	MinMaxSide     = 400
)

// DarkThreshold is the 8-bit luminance below which a pixel counts as dark.
const DarkThreshold = 80

// Like-icon geometry, relative to the full screenshot: a wide crop around
// the icon and a center box within that crop.
var (
	LikeIconBox   = Box{X1: 0.05, Y1: 0.47, X2: 0.12, Y2: 0.55}
	LikeCenterBox = Box{X1: 0.30, Y1: 0.30, X2: 0.70, Y2: 0.70}
)

// Box is a rectangle in relative [0,1] coordinates.
type Box struct {
	X1, Y1, X2, Y2 float64
}

// Decode parses image bytes (PNG, JPEG or GIF).
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Downscale returns img scaled so its longest side is at most maxSide.
// Values below the floor are raised to it. Images already small enough are
// returned unchanged.
func Downscale(img image.Image, maxSide int) image.Image {
	if maxSide < MinMaxSide {
		maxSide = MinMaxSide
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxSide {
		return img
	}
	scale := float64(maxSide) / float64(longest)
	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// Crop extracts the sub-image described by the relative box.
func Crop(img image.Image, box Box) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	x1 := b.Min.X + int(float64(w)*box.X1)
	y1 := b.Min.Y + int(float64(h)*box.Y1)
	x2 := b.Min.X + int(float64(w)*box.X2)
	y2 := b.Min.Y + int(float64(h)*box.Y2)
	if x2 <= x1 {
		x2 = x1 + 1
	}
	if y2 <= y1 {
		y2 = y1 + 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, x2-x1, y2-y1))
	xdraw.Copy(dst, image.Point{}, img, image.Rect(x1, y1, x2, y2), xdraw.Src, nil)
	return dst
}

// DarkRatio returns the fraction of pixels with luminance below threshold.
func DarkRatio(img image.Image, threshold uint8) float64 {
	b := img.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 0
	}
	dark := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			if g.Y < threshold {
				dark++
			}
		}
	}
	return float64(dark) / float64(total)
}

// LikeSignal measures the like-icon darkness: the whole wide-crop ratio and
// the center-region ratio used to resolve the ambiguous band.
func LikeSignal(img image.Image) (whole, center float64) {
	crop := Crop(img, LikeIconBox)
	whole = DarkRatio(crop, DarkThreshold)
	center = DarkRatio(Crop(crop, LikeCenterBox), DarkThreshold)
	return whole, center
}

// EncodePNG renders img back to PNG bytes for the OCR collaborator.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
