package layeredphotoslib

import (
	"fmt"
	"image"
	"log"
	"math"

	"github.com/disintegration/imaging"
)

// Normalize resizes photo to the given width, keeping its aspect ratio, then
// applies the top, bottom and right crops and the corner punch, in that order.
// Each step works on the output of the previous one.
// photo is not modified.
func Normalize(photo image.Image, width int, p ParameterSet) (*image.NRGBA, error) {
	if err := p.validateNormalize(); err != nil {
		return nil, err
	}
	if width <= 0 {
		return nil, fmt.Errorf("Cannot normalize to width %d", width)
	}

	b := photo.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}

	height := int(float64(b.Dy()) * (float64(width) / float64(b.Dx())))
	if height <= 0 {
		return nil, ErrEmptyImage
	}

	img := imaging.Resize(photo, width, height, imaging.Lanczos)

	img = cropTop(img, p.CropTop)
	img = cropBottom(img, p.CropBottom)
	img = cropRight(img, p.CropRight)
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	if p.CornerCrop {
		punchCorner(img, p.CornerSize)
	}

	return img, nil
}

// Removes pct% of the rows from the top
func cropTop(img *image.NRGBA, pct float64) *image.NRGBA {
	if pct <= 0 || pct >= 100 {
		return img
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	rows := int(float64(h) * pct / 100)
	if debugEnabled() {
		log.Printf("Cropping %d rows (%g%%) off the top\n", rows, pct)
	}
	return imaging.Crop(img, image.Rect(0, rows, w, h))
}

// Keeps the top (100-pct)% of the rows
func cropBottom(img *image.NRGBA, pct float64) *image.NRGBA {
	if pct <= 0 || pct >= 100 {
		return img
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	keep := int(float64(h) * (1 - pct/100))
	if debugEnabled() {
		log.Printf("Cropping %d rows (%g%%) off the bottom\n", h-keep, pct)
	}
	return imaging.Crop(img, image.Rect(0, 0, w, keep))
}

// Keeps the left (100-pct)% of the columns
func cropRight(img *image.NRGBA, pct float64) *image.NRGBA {
	if pct <= 0 || pct >= 100 {
		return img
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	keep := int(float64(w) * (1 - pct/100))
	if debugEnabled() {
		log.Printf("Cropping %d columns (%g%%) off the right\n", w-keep, pct)
	}
	return imaging.Crop(img, image.Rect(0, 0, keep, h))
}

// Sets a square at the top right corner to fully transparent, in place.
// The side is pct% of the width. Dimensions are unchanged.
func punchCorner(img *image.NRGBA, pct float64) {
	if pct <= 0 || pct >= 100 {
		return
	}
	b := img.Bounds()
	side := int(math.Round(float64(b.Dx()) * pct / 100))
	if side <= 0 {
		return
	}

	r := image.Rect(b.Max.X-side, b.Min.Y, b.Max.X, b.Min.Y+side).Intersect(b)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := img.PixOffset(r.Min.X, y)
		row := img.Pix[i : i+4*r.Dx()]
		for j := range row {
			row[j] = 0
		}
	}

	if debugEnabled() {
		log.Printf("Punched a %dx%d square out of the top right corner\n", r.Dx(), r.Dy())
	}
}
