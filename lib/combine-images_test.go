package layeredphotoslib

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestPlaceAndComposite_CentredScaledPhoto(t *testing.T) {
	canvas := NewCanvas(nil, image.Pt(1920, 1080))
	p := DefaultParameters()
	p.Scale = 50

	out, err := PlaceAndComposite(canvas, solid(400, 300, red), p, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertSize(t, out, 1920, 1080)

	// 200x150 photo with its top left corner at 860,465
	assertPixel(t, out, 860, 465, red)
	assertPixel(t, out, 1059, 614, red)
	assertPixel(t, out, 859, 465, transparent)
	assertPixel(t, out, 860, 464, transparent)
	assertPixel(t, out, 1060, 614, transparent)
	assertPixel(t, out, 1059, 615, transparent)
}

func TestPlaceAndComposite_Offsets(t *testing.T) {
	canvas := NewCanvas(solid(100, 100, blue), image.Point{})
	p := DefaultParameters()
	p.XOffset = -10
	p.YOffset = 5

	out, err := PlaceAndComposite(canvas, solid(20, 20, red), p, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	assertPixel(t, out, 30, 45, red)
	assertPixel(t, out, 49, 64, red)
	assertPixel(t, out, 29, 45, blue)
	assertPixel(t, out, 50, 64, blue)
}

func TestPlaceAndComposite_ClipsOutOfBounds(t *testing.T) {
	canvas := NewCanvas(solid(100, 100, blue), image.Point{})
	p := DefaultParameters()
	p.XOffset = -90
	p.YOffset = -90

	out, err := PlaceAndComposite(canvas, solid(100, 100, red), p, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertPixel(t, out, 9, 9, red)
	assertPixel(t, out, 10, 10, blue)

	p.XOffset = 5000
	out, err = PlaceAndComposite(out, solid(100, 100, red), p, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertPixel(t, out, 50, 50, blue)
}

func TestPlaceAndComposite_LargerThanCanvas(t *testing.T) {
	canvas := NewCanvas(nil, image.Pt(10, 10))
	photo := rowGradient(13, 13)

	out, err := PlaceAndComposite(canvas, photo, DefaultParameters(), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// (10-13)/2 rounds down to -2
	assertPixel(t, out, 0, 0, rowColour(2))
}

func TestPlaceAndComposite_Mask(t *testing.T) {
	canvas := NewCanvas(solid(50, 50, blue), image.Point{})
	mask := solid(50, 50, transparent)
	for x := 0; x < 50; x++ {
		mask.SetNRGBA(x, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	}

	out, err := PlaceAndComposite(canvas, solid(50, 50, red), DefaultParameters(), mask)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertPixel(t, out, 10, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	assertPixel(t, out, 10, 1, red)
}

func TestPlaceAndComposite_RejectsBadScale(t *testing.T) {
	for _, scale := range []float64{0, -50} {
		p := DefaultParameters()
		p.Scale = scale

		_, err := PlaceAndComposite(NewCanvas(nil, image.Pt(10, 10)), solid(10, 10, red), p, nil)
		var ipe *InvalidParameterError
		if !errors.As(err, &ipe) || ipe.Field != FieldScale {
			t.Errorf("Scale %g: expected InvalidParameterError for scale, got %v", scale, err)
		}
	}
}

func TestPlaceAndComposite_TinyScale(t *testing.T) {
	p := DefaultParameters()
	p.Scale = 0.01

	_, err := PlaceAndComposite(NewCanvas(nil, image.Pt(10, 10)), solid(10, 10, red), p, nil)
	if !errors.Is(err, ErrEmptyImage) {
		t.Errorf("Expected ErrEmptyImage, got %v", err)
	}
}

func TestNewCanvas_WithoutBase(t *testing.T) {
	canvas := NewCanvas(nil, image.Pt(64, 32))
	assertSize(t, canvas, 64, 32)
	for i, v := range canvas.Pix {
		if v != 0 {
			t.Fatalf("Expected a fully transparent canvas, byte %d is %d", i, v)
		}
	}
}

func TestNewCanvas_CopiesBase(t *testing.T) {
	base := solid(4, 4, blue)
	canvas := NewCanvas(base, image.Pt(100, 100))
	assertSize(t, canvas, 4, 4)

	canvas.SetNRGBA(0, 0, red)
	assertPixel(t, base, 0, 0, blue)
}

func TestAlphaOver(t *testing.T) {
	tests := []struct {
		name string
		src  color.NRGBA
		dst  color.NRGBA
		want color.NRGBA
	}{
		{"transparent source", color.NRGBA{R: 10, G: 20, B: 30}, blue, blue},
		{"opaque source", red, blue, red},
		{"half red over blue", color.NRGBA{R: 255, A: 128}, blue, color.NRGBA{R: 128, B: 127, A: 255}},
		{"onto transparent", color.NRGBA{R: 200, G: 100, A: 100}, transparent, color.NRGBA{R: 200, G: 100, A: 100}},
		{"both translucent", color.NRGBA{R: 255, A: 128}, color.NRGBA{B: 255, A: 128}, color.NRGBA{R: 170, B: 85, A: 192}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := solid(1, 1, tt.dst)
			alphaOver(dst, solid(1, 1, tt.src), image.Point{})
			assertPixel(t, dst, 0, 0, tt.want)
		})
	}
}

func TestApplyTop(t *testing.T) {
	top := solid(10, 10, transparent)
	top.SetNRGBA(9, 9, red)

	out := ApplyTop(solid(10, 10, blue), top)
	assertPixel(t, out, 9, 9, red)
	assertPixel(t, out, 0, 0, blue)

	out = ApplyTop(out, nil)
	assertPixel(t, out, 0, 0, blue)
}
