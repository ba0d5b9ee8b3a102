package imageprep

import (
	"image"
	"image/color"
	"testing"
)

// fill creates a w×h image painted a single color.
func fill(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestDownscale(t *testing.T) {
	big := fill(2200, 1100, color.White)
	got := Downscale(big, DefaultMaxSide)
	if b := got.Bounds(); b.Dx() != 1100 || b.Dy() != 550 {
		t.Errorf("Downscale bounds = %v, want 1100x550", b)
	}

	small := fill(800, 600, color.White)
	if Downscale(small, DefaultMaxSide) != image.Image(small) {
		t.Error("Downscale should return small images unchanged")
	}
}

func TestDownscaleFloor(t *testing.T) {
	img := fill(800, 800, color.White)
	got := Downscale(img, 100)
	if b := got.Bounds(); b.Dx() != MinMaxSide || b.Dy() != MinMaxSide {
		t.Errorf("Downscale bounds = %v, want %dx%d", b, MinMaxSide, MinMaxSide)
	}
}

func TestCrop(t *testing.T) {
	img := fill(100, 100, color.White)
	got := Crop(img, Box{X1: 0.25, Y1: 0.25, X2: 0.75, Y2: 0.75})
	if b := got.Bounds(); b.Dx() != 50 || b.Dy() != 50 {
		t.Errorf("Crop bounds = %v, want 50x50", b)
	}

	// Degenerate boxes still yield at least one pixel.
	got = Crop(img, Box{X1: 0.5, Y1: 0.5, X2: 0.5, Y2: 0.5})
	if b := got.Bounds(); b.Dx() != 1 || b.Dy() != 1 {
		t.Errorf("Crop degenerate bounds = %v, want 1x1", b)
	}
}

func TestDarkRatio(t *testing.T) {
	if got := DarkRatio(fill(10, 10, color.White), DarkThreshold); got != 0 {
		t.Errorf("DarkRatio(white) = %v, want 0", got)
	}
	if got := DarkRatio(fill(10, 10, color.Black), DarkThreshold); got != 1 {
		t.Errorf("DarkRatio(black) = %v, want 1", got)
	}

	half := fill(10, 10, color.White)
	for y := 0; y < 5; y++ {
		for x := 0; x < 10; x++ {
			half.Set(x, y, color.Black)
		}
	}
	if got := DarkRatio(half, DarkThreshold); got != 0.5 {
		t.Errorf("DarkRatio(half) = %v, want 0.5", got)
	}
}

func TestLikeSignal(t *testing.T) {
	// Paint the like-icon region black on a white screenshot; both ratios
	// should saturate.
	img := fill(1000, 1000, color.White)
	for y := 470; y < 550; y++ {
		for x := 50; x < 120; x++ {
			img.Set(x, y, color.Black)
		}
	}

	whole, center := LikeSignal(img)
	if whole != 1 || center != 1 {
		t.Errorf("LikeSignal = (%v, %v), want (1, 1)", whole, center)
	}

	whole, center = LikeSignal(fill(1000, 1000, color.White))
	if whole != 0 || center != 0 {
		t.Errorf("LikeSignal(white) = (%v, %v), want (0, 0)", whole, center)
	}
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	img := fill(40, 30, color.RGBA{R: 200, G: 40, B: 40, A: 255})
	data, err := EncodePNG(img)
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("decoded bounds = %v, want 40x30", b)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not an image at all")); err == nil {
		t.Error("Decode accepted garbage bytes")
	}
}
