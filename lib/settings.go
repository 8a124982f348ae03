package layeredphotoslib

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Settings is everything the user tunes between runs. Persisted as TOML.
type Settings struct {
	BaseImage    string
	MaskImage    string
	OverlayImage string
	TopImage     string

	Scale        float64
	XOffset      int
	YOffset      int
	OverlayScale float64
	CropTop      float64
	CropBottom   float64
	CropRight    float64
	CornerCrop   bool
	CornerSize   float64

	UseBase    bool
	UseMask    bool
	UseOverlay bool
	UseTop     bool
}

func DefaultSettings() Settings {
	s := Settings{}
	s.SetParameters(DefaultParameters())
	return s
}

// LoadSettings reads the settings file. A missing or invalid file is not an
// error, the defaults are returned instead and the problem is logged.
// Template paths that no longer exist are dropped.
func LoadSettings(file AbsolutePath) Settings {
	s := DefaultSettings()

	_, err := os.Stat(file)
	if os.IsNotExist(err) {
		return s
	}

	if _, err = toml.DecodeFile(file, &s); err != nil {
		log.Printf("Ignoring invalid settings file [%s]: %s\n", file, err)
		return DefaultSettings()
	}

	if err = s.Parameters().Validate(); err != nil {
		log.Printf("Ignoring invalid settings file [%s]: %s\n", file, err)
		return DefaultSettings()
	}

	paths := s.TemplatePaths()
	for l := Layer(0); l < LayerCount; l++ {
		if paths[l] == "" {
			continue
		}
		if _, err := os.Stat(paths[l]); err != nil {
			log.Printf("Ignoring %s layer path [%s]: %s\n", l, paths[l], err)
			paths[l] = ""
		}
	}
	s.SetTemplatePaths(paths)

	return s
}

// Save writes the settings atomically.
func (s Settings) Save(file AbsolutePath) error {
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return err
	}

	buf := &bytes.Buffer{}
	if err := toml.NewEncoder(buf).Encode(s); err != nil {
		return fmt.Errorf("Error encoding settings: %w", err)
	}

	tmp, err := ioutil.TempFile(filepath.Dir(file), ".settings-*.toml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(buf.Bytes())
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	// Renaming should be atomic enough for our purposes
	return os.Rename(tmp.Name(), file)
}

func (s Settings) Parameters() ParameterSet {
	return ParameterSet{
		Scale:        s.Scale,
		XOffset:      s.XOffset,
		YOffset:      s.YOffset,
		OverlayScale: s.OverlayScale,
		CropTop:      s.CropTop,
		CropBottom:   s.CropBottom,
		CropRight:    s.CropRight,
		CornerCrop:   s.CornerCrop,
		CornerSize:   s.CornerSize,
		Enabled:      [LayerCount]bool{s.UseBase, s.UseMask, s.UseOverlay, s.UseTop},
	}
}

func (s *Settings) SetParameters(p ParameterSet) {
	s.Scale = p.Scale
	s.XOffset = p.XOffset
	s.YOffset = p.YOffset
	s.OverlayScale = p.OverlayScale
	s.CropTop = p.CropTop
	s.CropBottom = p.CropBottom
	s.CropRight = p.CropRight
	s.CornerCrop = p.CornerCrop
	s.CornerSize = p.CornerSize
	s.UseBase = p.Enabled[Base]
	s.UseMask = p.Enabled[Mask]
	s.UseOverlay = p.Enabled[Overlay]
	s.UseTop = p.Enabled[Top]
}

func (s Settings) TemplatePaths() TemplatePaths {
	return TemplatePaths{s.BaseImage, s.MaskImage, s.OverlayImage, s.TopImage}
}

func (s *Settings) SetTemplatePaths(p TemplatePaths) {
	s.BaseImage = p[Base]
	s.MaskImage = p[Mask]
	s.OverlayImage = p[Overlay]
	s.TopImage = p[Top]
}

// SetTemplatePath changes one layer's path. The file must exist.
func (s *Settings) SetTemplatePath(l Layer, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return err
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("Template [%s] is not a regular file", abs)
	}

	paths := s.TemplatePaths()
	paths[l] = abs
	s.SetTemplatePaths(paths)
	return nil
}
