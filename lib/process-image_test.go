package layeredphotoslib

import (
	"errors"
	"strings"
	"testing"
)

func TestSetField(t *testing.T) {
	tests := []struct {
		field string
		value string
		ok    bool
		check func(p ParameterSet) bool
	}{
		{FieldScale, "50", true, func(p ParameterSet) bool { return p.Scale == 50 }},
		{FieldScale, " 12.5 ", true, func(p ParameterSet) bool { return p.Scale == 12.5 }},
		{FieldScale, "0", false, nil},
		{FieldScale, "abc", false, nil},
		{FieldScale, "NaN", false, nil},
		{FieldScale, "+Inf", false, nil},
		{FieldXOffset, "-40", true, func(p ParameterSet) bool { return p.XOffset == -40 }},
		{FieldYOffset, "7", true, func(p ParameterSet) bool { return p.YOffset == 7 }},
		{FieldXOffset, "1.5", false, nil},
		{FieldOverlayScale, "-1", false, nil},
		{FieldCropTop, "0", true, func(p ParameterSet) bool { return p.CropTop == 0 }},
		{FieldCropTop, "100", false, nil},
		{FieldCropBottom, "99.9", true, func(p ParameterSet) bool { return p.CropBottom == 99.9 }},
		{FieldCropRight, "-3", false, nil},
		{FieldCornerCrop, "on", true, func(p ParameterSet) bool { return p.CornerCrop }},
		{FieldCornerCrop, "maybe", false, nil},
		{FieldCornerSize, "0", false, nil},
		{FieldCornerSize, "100", false, nil},
		{FieldCornerSize, "25", true, func(p ParameterSet) bool { return p.CornerSize == 25 }},
	}

	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value, func(t *testing.T) {
			p := DefaultParameters()
			err := p.SetField(tt.field, tt.value)

			if !tt.ok {
				var ipe *InvalidParameterError
				if !errors.As(err, &ipe) {
					t.Fatalf("Expected InvalidParameterError, got %v", err)
				}
				if ipe.Field != tt.field {
					t.Errorf("Expected field %s, got %s", tt.field, ipe.Field)
				}
				if p != DefaultParameters() {
					t.Errorf("Expected parameters to be unchanged, got %s", p)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !tt.check(p) {
				t.Errorf("Field not set correctly: %s", p)
			}
		})
	}
}

func TestSetField_Unknown(t *testing.T) {
	p := DefaultParameters()
	err := p.SetField("rotation", "90")
	var ipe *InvalidParameterError
	if err == nil || errors.As(err, &ipe) {
		t.Errorf("Expected an unknown parameter error, got %v", err)
	}
}

func TestSetLayerField(t *testing.T) {
	p := DefaultParameters()
	if err := p.SetLayerField(Overlay, "off"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if p.Enabled[Overlay] || !p.Enabled[Base] {
		t.Errorf("Expected only the overlay to be disabled, got %v", p.Enabled)
	}

	if err := p.SetLayerField(Top, "sideways"); err == nil {
		t.Error("Expected an error")
	}
	if !p.Enabled[Top] {
		t.Error("Expected the top layer to stay enabled")
	}
}

func TestParameterSet_String(t *testing.T) {
	p := DefaultParameters()
	p.Enabled[Mask] = false
	p.XOffset = -5

	s := p.String()
	for _, want := range []string{"scale=100%", "offset=-5+0", "corner=off", "layers=base,overlay,top"} {
		if !strings.Contains(s, want) {
			t.Errorf("Expected %q to contain %q", s, want)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	p := DefaultParameters()
	k := p.normalizeKey(100)

	q := p
	q.Scale = 5
	q.XOffset = 10
	q.CornerSize = 40
	if q.normalizeKey(100) != k {
		t.Error("Placement and a disabled corner size should not change the key")
	}

	q.CornerCrop = true
	if q.normalizeKey(100) == k {
		t.Error("Enabling the corner crop should change the key")
	}
	if p.normalizeKey(200) == k {
		t.Error("Changing the width should change the key")
	}
}
