package layeredphotoslib

import (
	"image"
	"log"
)

// Fraction of the multiplied colour kept, out of 10. The rest comes from the
// original canvas colour.
const multiplyStrength = 7

// ApplyOverlayBlend scales overlay by p.OverlayScale, centres it on canvas and
// applies a softened multiply: each colour channel becomes
// 0.3*canvas + 0.7*(canvas*overlay). Canvas alpha is never changed.
// Pixels outside of the overlay are left untouched and transparent overlay
// pixels are treated as white, so they're neutral. canvas is modified in
// place and returned.
func ApplyOverlayBlend(canvas, overlay *image.NRGBA, p ParameterSet) (*image.NRGBA, error) {
	if err := checkPositive(FieldOverlayScale, p.OverlayScale); err != nil {
		return nil, err
	}

	scaled, err := scaleByPercent(overlay, p.OverlayScale)
	if err != nil {
		return nil, err
	}

	at := centredAt(canvas.Bounds(), scaled.Bounds(), image.Point{})
	if debugEnabled() {
		log.Printf("Blending %dx%d overlay at %v\n",
			scaled.Bounds().Dx(), scaled.Bounds().Dy(), at)
	}
	multiplyBlend(canvas, scaled, at)
	return canvas, nil
}

func multiplyBlend(dst, src *image.NRGBA, at image.Point) {
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

			d := dst.Pix[di : di+3 : di+3]
			for c := 0; c < 3; c++ {
				d[c] = softMultiply(d[c], flattenOnWhite(s[c], sa))
			}
		}
	}
}

// Composites a straight alpha channel value over white
func flattenOnWhite(v uint8, a int) int {
	if a == 255 {
		return int(v)
	}
	return (int(v)*a + 255*(255-a) + 127) / 255
}

// Single rounding of c*0.3 + (c*o/255)*0.7, scaled by 2550
func softMultiply(c uint8, o int) uint8 {
	ci := int(c)
	num := 255*ci*(10-multiplyStrength) + ci*o*multiplyStrength
	return uint8((num + 1275) / 2550)
}
