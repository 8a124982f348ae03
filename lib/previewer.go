package layeredphotoslib

import (
	"image"
	"sync"

	"github.com/disintegration/imaging"
)

type PreviewResult struct {
	Path      AbsolutePath
	Params    ParameterSet
	Image     *image.NRGBA
	Thumbnail *image.NRGBA
	Err       error
}

type previewRequest struct {
	gen    uint64
	path   AbsolutePath
	params ParameterSet
}

// Previewer renders previews on a single background goroutine.
// Only the newest request matters: requests that haven't started yet are
// replaced by newer ones, and the results of requests that were superseded
// while running are dropped instead of being delivered.
type Previewer struct {
	c         *Compositor
	thumbSize image.Point
	deliver   func(PreviewResult)

	mu      sync.Mutex
	gen     uint64
	pending *previewRequest
	closed  bool

	wake chan struct{}
	done chan struct{}
}

// NewPreviewer starts the worker. deliver is called from the worker goroutine
// with the result of every request that wasn't superseded.
func NewPreviewer(
	c *Compositor, thumbSize image.Point, deliver func(PreviewResult)) *Previewer {
	pv := &Previewer{
		c:         c,
		thumbSize: thumbSize,
		deliver:   deliver,
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	go pv.run()
	return pv
}

// Request asks for a new preview, superseding every earlier request.
func (pv *Previewer) Request(path AbsolutePath, p ParameterSet) {
	pv.mu.Lock()
	defer pv.mu.Unlock()
	if pv.closed {
		return
	}
	pv.gen++
	pv.pending = &previewRequest{gen: pv.gen, path: path, params: p}

	select {
	case pv.wake <- struct{}{}:
	default:
		// Worker has already been woken and will pick up the newest request
	}
}

// Close waits for any running preview to finish. Nothing is delivered after
// Close returns.
func (pv *Previewer) Close() {
	pv.mu.Lock()
	if pv.closed {
		pv.mu.Unlock()
		return
	}
	pv.closed = true
	pv.pending = nil
	pv.gen++
	close(pv.wake)
	pv.mu.Unlock()

	<-pv.done
}

func (pv *Previewer) run() {
	defer close(pv.done)

	for range pv.wake {
		for {
			pv.mu.Lock()
			req := pv.pending
			pv.pending = nil
			pv.mu.Unlock()

			if req == nil {
				break
			}

			res := pv.render(req)

			pv.mu.Lock()
			current := req.gen == pv.gen
			pv.mu.Unlock()

			if current {
				pv.deliver(res)
			}
		}
	}
}

func (pv *Previewer) render(req *previewRequest) PreviewResult {
	res := PreviewResult{Path: req.path, Params: req.params}
	res.Image, res.Err = pv.c.Process(req.path, req.params)
	if res.Err == nil {
		res.Thumbnail = Thumbnail(res.Image, pv.thumbSize)
	}
	return res
}

// Thumbnail shrinks img to fit within size, keeping its aspect ratio.
// Images that already fit are copied unchanged.
func Thumbnail(img image.Image, size image.Point) *image.NRGBA {
	b := img.Bounds()
	if size.X <= 0 || size.Y <= 0 || (b.Dx() <= size.X && b.Dy() <= size.Y) {
		return imaging.Clone(img)
	}
	return imaging.Fit(img, size.X, size.Y, imaging.Lanczos)
}
