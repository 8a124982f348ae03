package layeredphotoslib

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Geometric parameters applied to every photo.
// Percentages are expressed as 0-100, not 0-1.
type ParameterSet struct {
	// Scale of the normalized photo on the canvas
	Scale   float64
	XOffset int
	YOffset int // +y is down
	// Scale of the overlay template before it's centred on the canvas
	OverlayScale float64
	// Crops applied to the width-normalized photo, in this order: top, bottom,
	// right. Zero disables a crop.
	CropTop    float64
	CropBottom float64
	CropRight  float64
	// Punches a transparent square into the top right corner, sized as a
	// percentage of the cropped photo's width
	CornerCrop bool
	CornerSize float64
	Enabled    [LayerCount]bool
}

func DefaultParameters() ParameterSet {
	return ParameterSet{
		Scale:        100,
		OverlayScale: 100,
		CropTop:      10,
		CropBottom:   10,
		CropRight:    10,
		CornerSize:   15,
		Enabled:      [LayerCount]bool{true, true, true, true},
	}
}

// Field names, as accepted by SetField and shown to users
const (
	FieldScale        = "scale"
	FieldXOffset      = "x"
	FieldYOffset      = "y"
	FieldOverlayScale = "overlay-scale"
	FieldCropTop      = "crop-top"
	FieldCropBottom   = "crop-bottom"
	FieldCropRight    = "crop-right"
	FieldCornerCrop   = "corner"
	FieldCornerSize   = "corner-size"
)

func checkFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalidParam(field, v, "must be a finite number")
	}
	return nil
}

func checkPositive(field string, v float64) error {
	if err := checkFinite(field, v); err != nil {
		return err
	}
	if v <= 0 {
		return invalidParam(field, v, "must be greater than 0")
	}
	return nil
}

func checkCrop(field string, v float64) error {
	if err := checkFinite(field, v); err != nil {
		return err
	}
	if v < 0 || v >= 100 {
		return invalidParam(field, v, "must be in [0, 100)")
	}
	return nil
}

// Validates the parameters used when normalizing the photo
func (p ParameterSet) validateNormalize() error {
	if err := checkCrop(FieldCropTop, p.CropTop); err != nil {
		return err
	}
	if err := checkCrop(FieldCropBottom, p.CropBottom); err != nil {
		return err
	}
	if err := checkCrop(FieldCropRight, p.CropRight); err != nil {
		return err
	}
	if p.CornerCrop {
		if err := checkFinite(FieldCornerSize, p.CornerSize); err != nil {
			return err
		}
		if p.CornerSize <= 0 || p.CornerSize >= 100 {
			return invalidParam(FieldCornerSize, p.CornerSize, "must be in (0, 100)")
		}
	}
	return nil
}

// Validate checks every field. Called before any image work is done.
func (p ParameterSet) Validate() error {
	if err := checkPositive(FieldScale, p.Scale); err != nil {
		return err
	}
	if err := checkPositive(FieldOverlayScale, p.OverlayScale); err != nil {
		return err
	}
	return p.validateNormalize()
}

// SetField parses a user supplied value for one field. The ParameterSet is
// unchanged when an error is returned.
func (p *ParameterSet) SetField(field, value string) error {
	value = strings.TrimSpace(value)
	bad := func(reason string) error {
		return &InvalidParameterError{Field: field, Value: value, Reason: reason}
	}

	switch field {
	case FieldXOffset, FieldYOffset:
		n, err := strconv.Atoi(value)
		if err != nil {
			return bad("must be an integer")
		}
		if field == FieldXOffset {
			p.XOffset = n
		} else {
			p.YOffset = n
		}
		return nil
	case FieldCornerCrop:
		b, err := parseToggle(value)
		if err != nil {
			return bad(err.Error())
		}
		p.CornerCrop = b
		return nil
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return bad("must be a number")
	}

	q := *p
	switch field {
	case FieldScale:
		q.Scale = f
	case FieldOverlayScale:
		q.OverlayScale = f
	case FieldCropTop:
		q.CropTop = f
	case FieldCropBottom:
		q.CropBottom = f
	case FieldCropRight:
		q.CropRight = f
	case FieldCornerSize:
		// Checked here even when the corner crop is disabled so it can't be
		// enabled later with a bad size
		if f <= 0 || f >= 100 {
			return bad("must be in (0, 100)")
		}
		q.CornerSize = f
	default:
		return fmt.Errorf("Unknown parameter %q", field)
	}

	if err := q.Validate(); err != nil {
		return err
	}
	*p = q
	return nil
}

// SetLayerField enables or disables a layer from "on" or "off".
func (p *ParameterSet) SetLayerField(l Layer, value string) error {
	b, err := parseToggle(strings.TrimSpace(value))
	if err != nil {
		return &InvalidParameterError{Field: l.String(), Value: value, Reason: err.Error()}
	}
	p.Enabled[l] = b
	return nil
}

func parseToggle(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("must be on or off")
}

// Only the fields that are baked into a normalized photo.
type normalizeKey struct {
	width      int
	cropTop    float64
	cropBottom float64
	cropRight  float64
	corner     float64 // 0 when the corner crop is disabled
}

func (p ParameterSet) normalizeKey(width int) normalizeKey {
	k := normalizeKey{
		width:      width,
		cropTop:    p.CropTop,
		cropBottom: p.CropBottom,
		cropRight:  p.CropRight,
	}
	if p.CornerCrop {
		k.corner = p.CornerSize
	}
	return k
}

func (p ParameterSet) String() string {
	layers := []string{}
	for l := Layer(0); l < LayerCount; l++ {
		if p.Enabled[l] {
			layers = append(layers, l.String())
		}
	}

	corner := "off"
	if p.CornerCrop {
		corner = fmt.Sprintf("%g%%", p.CornerSize)
	}

	return fmt.Sprintf(
		"scale=%g%% offset=%+d%+d overlay=%g%% crop=%g,%g,%g corner=%s layers=%s",
		p.Scale, p.XOffset, p.YOffset, p.OverlayScale,
		p.CropTop, p.CropBottom, p.CropRight, corner, strings.Join(layers, ","))
}
