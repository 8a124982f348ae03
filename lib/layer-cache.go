package layeredphotoslib

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Template layers, in the order they're applied.
type Layer int

const (
	Base Layer = iota
	Mask
	Overlay
	Top
	LayerCount
)

var layerNames = [LayerCount]string{"base", "mask", "overlay", "top"}

func (l Layer) String() string {
	if l < 0 || l >= LayerCount {
		return fmt.Sprintf("layer(%d)", int(l))
	}
	return layerNames[l]
}

func ParseLayer(s string) (Layer, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	// The mask layer is usually a title bar
	if s == "title" {
		return Mask, nil
	}
	for l, n := range layerNames {
		if n == s {
			return Layer(l), nil
		}
	}
	return 0, fmt.Errorf("Unknown layer %q", s)
}

type TemplatePaths [LayerCount]AbsolutePath

// Decoded template layers. Empty slots are nil. Never mutated after loading.
type TemplateSet [LayerCount]*image.NRGBA

// Get returns the layer if it is both loaded and enabled.
func (ts *TemplateSet) Get(l Layer, enabled [LayerCount]bool) *image.NRGBA {
	if ts == nil || !enabled[l] {
		return nil
	}
	return ts[l]
}

type DecodeOptions struct {
	AutoOrient bool
}

func decodeImage(path AbsolutePath, opts DecodeOptions) (*image.NRGBA, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	if !fi.Mode().IsRegular() {
		return nil, &DecodeError{Path: path, Err: errors.New("not a regular file")}
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(opts.AutoOrient))
	if err != nil {
		if errors.Is(err, image.ErrFormat) || errors.Is(err, bmp.ErrUnsupported) {
			err = fmt.Errorf("unsupported image format: %w", err)
		}
		return nil, &DecodeError{Path: path, Err: err}
	}

	// Clone always produces a fresh NRGBA with bounds starting at 0,0
	out := imaging.Clone(img)
	if out.Bounds().Empty() {
		return nil, &DecodeError{Path: path, Err: ErrEmptyImage}
	}
	return out, nil
}

// LoadTemplates decodes every template. Failures are not fatal, they leave the
// slot empty and are returned as warnings.
func LoadTemplates(paths TemplatePaths, opts DecodeOptions) (TemplateSet, []error) {
	var ts TemplateSet
	var warnings []error

	for l := Layer(0); l < LayerCount; l++ {
		if paths[l] == "" {
			warnings = append(warnings, fmt.Errorf("No path set for %s layer", l))
			continue
		}

		img, err := decodeImage(paths[l], opts)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("Disabling %s layer: %w", l, err))
			continue
		}

		ts[l] = img
		if debugEnabled() {
			log.Printf("Loaded %s layer [%s] %dx%d\n",
				l, paths[l], img.Bounds().Dx(), img.Bounds().Dy())
		}
	}

	return ts, warnings
}
