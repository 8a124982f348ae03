package layeredphotoslib

import (
	"image"
	"log"
	"sync"
)

// Compositor owns the template layers and the cache of normalized photos.
// Safe for concurrent use. Templates are only ever replaced wholesale and
// cached images are never handed out for modification.
type Compositor struct {
	mu        sync.RWMutex
	paths     TemplatePaths
	templates TemplateSet
	// Size of the most recently loaded base layer, or the fallback size
	baseSize image.Point
	opts     DecodeOptions

	photos   map[AbsolutePath]*image.NRGBA
	photoKey normalizeKey
}

// NewCompositor creates a compositor without any templates loaded.
// fallback is the canvas size used until a base layer is loaded.
func NewCompositor(fallback image.Point, opts DecodeOptions) *Compositor {
	return &Compositor{
		baseSize: fallback,
		opts:     opts,
		photos:   make(map[AbsolutePath]*image.NRGBA),
	}
}

// ReloadTemplates replaces every template layer, even those whose paths are
// unchanged, and empties the photo cache. Layers that can't be loaded are left
// empty and returned as warnings.
func (c *Compositor) ReloadTemplates(paths TemplatePaths) []error {
	ts, warnings := LoadTemplates(paths, c.opts)
	for _, w := range warnings {
		log.Println(w)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.paths = paths
	c.templates = ts
	if base := ts[Base]; base != nil {
		c.baseSize = base.Bounds().Size()
	}
	c.photos = make(map[AbsolutePath]*image.NRGBA)
	return warnings
}

// Invalidate empties the normalized photo cache.
func (c *Compositor) Invalidate() {
	c.mu.Lock()
	c.photos = make(map[AbsolutePath]*image.NRGBA)
	c.mu.Unlock()
}

func (c *Compositor) Paths() TemplatePaths {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.paths
}

// Templates returns the currently loaded layers. The images must not be
// modified.
func (c *Compositor) Templates() TemplateSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.templates
}

// CanvasSize is the size of every composite: the base layer's size, or the
// last known base size when the base is missing.
func (c *Compositor) CanvasSize() image.Point {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseSize
}

// Returns the cached normalized photo, building it if necessary.
// The returned image is shared and must not be modified.
func (c *Compositor) normalized(
	path AbsolutePath, width int, p ParameterSet) (*image.NRGBA, error) {

	key := p.normalizeKey(width)

	c.mu.Lock()
	if key != c.photoKey {
		// Every cached photo has the old crops baked in
		c.photos = make(map[AbsolutePath]*image.NRGBA)
		c.photoKey = key
	}
	img, ok := c.photos[path]
	c.mu.Unlock()

	if ok {
		return img, nil
	}

	photo, err := decodeImage(path, c.opts)
	if err != nil {
		return nil, err
	}

	img, err = Normalize(photo, width, p)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	// Don't store a photo built from settings that were replaced meanwhile
	if c.photoKey == key {
		c.photos[path] = img
	}
	c.mu.Unlock()
	return img, nil
}

// Process composites one photo: normalize, place on the base, mask, overlay
// blend, top. Nothing shared is modified apart from populating the cache.
func (c *Compositor) Process(path AbsolutePath, p ParameterSet) (*image.NRGBA, error) {
	if path == "" {
		return nil, ErrNoSource
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	ts := c.templates
	size := c.baseSize
	c.mu.RUnlock()

	base := ts.Get(Base, p.Enabled)
	photo, err := c.normalized(path, size.X, p)
	if err != nil {
		return nil, err
	}

	canvas := NewCanvas(base, size)
	canvas, err = PlaceAndComposite(canvas, photo, p, ts.Get(Mask, p.Enabled))
	if err != nil {
		return nil, err
	}

	if overlay := ts.Get(Overlay, p.Enabled); overlay != nil {
		canvas, err = ApplyOverlayBlend(canvas, overlay, p)
		if err != nil {
			return nil, err
		}
	}

	return ApplyTop(canvas, ts.Get(Top, p.Enabled)), nil
}
