package layeredphotoslib

import (
	"image"
	"image/color"
	"log"

	"github.com/disintegration/imaging"
)

// NewCanvas returns a private copy of base, or a transparent canvas of the
// given size when there is no base.
func NewCanvas(base *image.NRGBA, size image.Point) *image.NRGBA {
	if base != nil {
		return imaging.Clone(base)
	}
	return imaging.New(size.X, size.Y, color.NRGBA{})
}

// Resizes img by pct%, truncating the new dimensions.
// At 100% a copy is returned.
func scaleByPercent(img image.Image, pct float64) (*image.NRGBA, error) {
	b := img.Bounds()
	if pct == 100 {
		return imaging.Clone(img), nil
	}

	f := pct / 100
	w := int(float64(b.Dx()) * f)
	h := int(float64(b.Dy()) * f)
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyImage
	}
	return imaging.Resize(img, w, h, imaging.Lanczos), nil
}

// Python style floor division by two, so photos larger than the canvas are
// centred the same way as smaller ones.
func halfFloor(n int) int {
	if n < 0 {
		return -((-n + 1) / 2)
	}
	return n / 2
}

// Top left corner of src when centred on dst and then shifted by offset
func centredAt(dst, src image.Rectangle, offset image.Point) image.Point {
	return image.Pt(
		halfFloor(dst.Dx()-src.Dx())+offset.X,
		halfFloor(dst.Dy()-src.Dy())+offset.Y)
}

// PlaceAndComposite scales photo by p.Scale, centres it on canvas shifted by
// the offsets and composites it over the canvas, then composites mask over
// the result at 0,0. canvas is modified in place and returned.
// Any part of photo outside of canvas is dropped.
func PlaceAndComposite(
	canvas *image.NRGBA, photo *image.NRGBA, p ParameterSet, mask *image.NRGBA) (
	*image.NRGBA, error) {

	// Must be checked before resizing
	if err := checkPositive(FieldScale, p.Scale); err != nil {
		return nil, err
	}

	scaled, err := scaleByPercent(photo, p.Scale)
	if err != nil {
		return nil, err
	}

	at := centredAt(canvas.Bounds(), scaled.Bounds(), image.Pt(p.XOffset, p.YOffset))
	if debugEnabled() {
		log.Printf("Placing %dx%d photo at %v on %dx%d canvas\n",
			scaled.Bounds().Dx(), scaled.Bounds().Dy(), at,
			canvas.Bounds().Dx(), canvas.Bounds().Dy())
	}
	alphaOver(canvas, scaled, at)

	if mask != nil {
		alphaOver(canvas, mask, image.Point{})
	}
	return canvas, nil
}

// ApplyTop composites top over canvas at 0,0, in place.
func ApplyTop(canvas *image.NRGBA, top *image.NRGBA) *image.NRGBA {
	if top != nil {
		alphaOver(canvas, top, image.Point{})
	}
	return canvas
}

// Straight alpha "over" of src onto dst with src's origin at "at".
// Integer arithmetic with round-half-up so output is reproducible everywhere.
func alphaOver(dst, src *image.NRGBA, at image.Point) {
	sb := src.Bounds()
	r := sb.Sub(sb.Min).Add(at).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}

	for y := r.Min.Y; y < r.Max.Y; y++ {
		di := dst.PixOffset(r.Min.X, y)
		si := src.PixOffset(r.Min.X-at.X+sb.Min.X, y-at.Y+sb.Min.Y)

		for x := r.Min.X; x < r.Max.X; x, di, si = x+1, di+4, si+4 {
			s := src.Pix[si : si+4 : si+4]
			sa := int(s[3])
			if sa == 0 {
				continue
			}

			d := dst.Pix[di : di+4 : di+4]
			if sa == 255 {
				copy(d, s)
				continue
			}

			da := int(d[3])
			// Output alpha scaled by 255
			outA := sa*255 + da*(255-sa)
			dw := da * (255 - sa)
			for c := 0; c < 3; c++ {
				num := int(s[c])*sa*255 + int(d[c])*dw
				d[c] = uint8((num + outA/2) / outA)
			}
			d[3] = uint8((outA + 127) / 255)
		}
	}
}
