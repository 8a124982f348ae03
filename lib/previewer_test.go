package layeredphotoslib

import (
	"image"
	"testing"
	"time"
)

func TestPreviewer_DeliversNewest(t *testing.T) {
	dir := t.TempDir()
	photo := writeImage(t, dir, "photo.png", solid(200, 150, red))
	c := NewCompositor(image.Pt(200, 150), DecodeOptions{})

	results := make(chan PreviewResult, 20)
	pv := NewPreviewer(c, image.Pt(70, 60), func(r PreviewResult) { results <- r })
	defer pv.Close()

	p := DefaultParameters()
	for i := 0; i < 10; i++ {
		p.XOffset = i
		pv.Request(photo, p)
	}

	timeout := time.After(10 * time.Second)
	for {
		select {
		case r := <-results:
			if r.Err != nil {
				t.Fatalf("Unexpected error: %v", r.Err)
			}
			if r.Params.XOffset != 9 {
				continue
			}
			assertSize(t, r.Image, 200, 150)
			assertSize(t, r.Thumbnail, 70, 52)
			return
		case <-timeout:
			t.Fatal("Timed out waiting for the newest preview")
		}
	}
}

func TestPreviewer_ReportsErrors(t *testing.T) {
	c := NewCompositor(image.Pt(20, 20), DecodeOptions{})
	results := make(chan PreviewResult, 1)
	pv := NewPreviewer(c, image.Pt(10, 10), func(r PreviewResult) { results <- r })
	defer pv.Close()

	pv.Request("", DefaultParameters())
	select {
	case r := <-results:
		if r.Err != ErrNoSource || r.Image != nil || r.Thumbnail != nil {
			t.Errorf("Expected ErrNoSource, got %+v", r)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Timed out waiting for the preview")
	}
}

func TestPreviewer_Close(t *testing.T) {
	dir := t.TempDir()
	photo := writeImage(t, dir, "photo.png", solid(20, 20, red))
	c := NewCompositor(image.Pt(20, 20), DecodeOptions{})

	results := make(chan PreviewResult, 20)
	pv := NewPreviewer(c, image.Pt(10, 10), func(r PreviewResult) { results <- r })

	pv.Request(photo, DefaultParameters())
	pv.Close()
	delivered := len(results)

	pv.Request(photo, DefaultParameters())
	pv.Close()
	time.Sleep(50 * time.Millisecond)

	if len(results) != delivered {
		t.Error("Expected nothing to be delivered after Close")
	}
}

func TestThumbnail(t *testing.T) {
	thumb := Thumbnail(solid(1400, 400, red), image.Pt(700, 600))
	assertSize(t, thumb, 700, 200)

	small := solid(10, 10, red)
	thumb = Thumbnail(small, image.Pt(700, 600))
	assertSize(t, thumb, 10, 10)
	thumb.SetNRGBA(0, 0, blue)
	assertPixel(t, small, 0, 0, red)
}
