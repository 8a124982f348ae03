package layeredphotoslib

import (
	"io/ioutil"
	"path/filepath"
	"testing"
)

func writeSettings(t *testing.T, dir, contents string) string {
	t.Helper()
	file := filepath.Join(dir, "settings.toml")
	if err := ioutil.WriteFile(file, []byte(contents), 0644); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return file
}

func TestLoadSettings_MissingFile(t *testing.T) {
	s := LoadSettings(filepath.Join(t.TempDir(), "settings.toml"))
	if s != DefaultSettings() {
		t.Errorf("Expected default settings, got %+v", s)
	}
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"not toml", "Scale = = 5\n[[["},
		{"wrong type", "Scale = \"big\"\n"},
		{"negative scale", "Scale = -1.0\nXOffset = 40\n"},
		{"crop out of range", "CropTop = 100.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := LoadSettings(writeSettings(t, t.TempDir(), tt.contents))
			if s != DefaultSettings() {
				t.Errorf("Expected default settings, got %+v", s)
			}
		})
	}
}

func TestLoadSettings_Partial(t *testing.T) {
	s := LoadSettings(writeSettings(t, t.TempDir(), "Scale = 80.0\nUseTop = false\n"))

	p := s.Parameters()
	if p.Scale != 80 {
		t.Errorf("Expected scale 80, got %g", p.Scale)
	}
	if p.Enabled[Top] {
		t.Error("Expected the top layer to be disabled")
	}
	if p.CropTop != 10 || !p.Enabled[Base] {
		t.Errorf("Expected unset fields to keep their defaults, got %s", p)
	}
}

func TestSettings_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	base := writeImage(t, dir, "base.png", solid(4, 4, blue))

	s := DefaultSettings()
	if err := s.SetTemplatePath(Base, base); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	p := s.Parameters()
	p.Scale = 42.5
	p.YOffset = -12
	p.CornerCrop = true
	p.Enabled[Overlay] = false
	s.SetParameters(p)

	file := filepath.Join(dir, "nested", "settings.toml")
	if err := s.Save(file); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	loaded := LoadSettings(file)
	if loaded != s {
		t.Errorf("Expected %+v, got %+v", s, loaded)
	}
	if loaded.Parameters() != p {
		t.Errorf("Expected parameters %s, got %s", p, loaded.Parameters())
	}
}

func TestLoadSettings_DropsMissingTemplates(t *testing.T) {
	dir := t.TempDir()
	top := writeImage(t, dir, "top.png", solid(4, 4, blue))

	s := DefaultSettings()
	s.BaseImage = filepath.Join(dir, "gone.png")
	s.TopImage = top
	file := filepath.Join(dir, "settings.toml")
	if err := s.Save(file); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	loaded := LoadSettings(file)
	if loaded.BaseImage != "" {
		t.Errorf("Expected the missing base path to be dropped, got %s", loaded.BaseImage)
	}
	if loaded.TopImage != top {
		t.Errorf("Expected top path %s, got %s", top, loaded.TopImage)
	}
}

func TestSettings_SetTemplatePath(t *testing.T) {
	dir := t.TempDir()
	s := DefaultSettings()

	if err := s.SetTemplatePath(Mask, filepath.Join(dir, "gone.png")); err == nil {
		t.Error("Expected an error for a missing file")
	}
	if err := s.SetTemplatePath(Mask, dir); err == nil {
		t.Error("Expected an error for a directory")
	}
	if s.MaskImage != "" {
		t.Errorf("Expected the mask path to be unchanged, got %s", s.MaskImage)
	}
}
