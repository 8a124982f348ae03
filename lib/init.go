package layeredphotoslib

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/awused/awconf"
)

type AbsolutePath = string

type Config struct {
	// Where the user-tunable settings (parameters, template paths, layer
	// toggles) are persisted.
	SettingsFile    string
	TempDirectory   string
	OutputDirectory string
	LogFile         string
	// Directory for the database used by the sample command
	DatabaseDir string
	// Canvas size used when no base layer has ever been loaded
	FallbackWidth  int
	FallbackHeight int
	PreviewWidth   int
	PreviewHeight  int
	// Only used when expanding directories into jobs
	ImageFileExtensions []string
	JPEGQuality         int
	// Rotate photos according to their EXIF orientation when decoding
	AutoOrient bool
	Debug      bool
}

var conf *Config

var tempDir string
var tempErr error
var tempOnce sync.Once

const (
	defaultFallbackWidth  = 1920
	defaultFallbackHeight = 1080
	defaultPreviewWidth   = 700
	defaultPreviewHeight  = 600
	defaultJPEGQuality    = 95
)

func TempDir() (string, error) {
	c, err := GetConfig()
	if err != nil {
		return "", err
	}

	tempOnce.Do(func() {
		tempDir, tempErr = ioutil.TempDir(c.TempDirectory, "layered-photos")
	})

	return tempDir, tempErr
}

// PreviewDir is where previews that outlive the process are written:
// TempDirectory when set, otherwise the system temp directory.
func PreviewDir() (string, error) {
	c, err := GetConfig()
	if err != nil {
		return "", err
	}

	if c.TempDirectory != "" {
		return c.TempDirectory, nil
	}
	return os.TempDir(), nil
}

func GetConfig() (*Config, error) {
	if conf != nil {
		return conf, nil
	}

	return nil, fmt.Errorf("Init never called")
}

// Be sure to defer Cleanup() after calling this
func Init() (*Config, error) {
	c := &Config{}

	if err := awconf.LoadConfig("layered-photos", c); err != nil {
		return nil, err
	}

	err := c.validate()
	if err != nil {
		return nil, err
	}

	conf = c
	return c, nil
}

// Installs an already built config without reading a config file.
func SetConfig(c *Config) error {
	if err := c.validate(); err != nil {
		return err
	}
	conf = c
	return nil
}

func debugEnabled() bool {
	return conf != nil && conf.Debug
}

func Cleanup() error {
	// tempDir is private and can't be set outside of this package
	if tempDir != "" {
		return os.RemoveAll(tempDir)
	}
	return nil
}

func (c *Config) validate() error {
	if c.SettingsFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("Config missing SettingsFile and no user config dir: %s", err)
		}
		c.SettingsFile = filepath.Join(dir, "layered-photos", "settings.toml")
	}

	fi, err := os.Stat(c.SettingsFile)
	if err == nil && fi.IsDir() {
		return fmt.Errorf("SettingsFile [%s] is a directory", c.SettingsFile)
	} else if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf(
			"Error calling os.Stat on SettingsFile [%s]: %s", c.SettingsFile, err)
	}

	if c.TempDirectory != "" {
		fi, err = os.Stat(c.TempDirectory)
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			return fmt.Errorf("TempDirectory [%s] is not a directory", c.TempDirectory)
		}
	}

	if c.OutputDirectory != "" {
		fi, err = os.Stat(c.OutputDirectory)
		if err == nil && !fi.IsDir() {
			return fmt.Errorf("OutputDirectory [%s] is a regular file", c.OutputDirectory)
		} else if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf(
				"Error calling os.Stat on OutputDirectory [%s]: %s", c.OutputDirectory, err)
		}
	}

	if c.DatabaseDir != "" {
		fi, err = os.Stat(c.DatabaseDir)
		if err == nil && !fi.IsDir() {
			return fmt.Errorf("DatabaseDir [%s] is not a directory", c.DatabaseDir)
		}
	}

	if c.FallbackWidth < 0 || c.FallbackHeight < 0 {
		return fmt.Errorf("Fallback canvas size cannot be negative")
	}
	if c.FallbackWidth == 0 {
		c.FallbackWidth = defaultFallbackWidth
	}
	if c.FallbackHeight == 0 {
		c.FallbackHeight = defaultFallbackHeight
	}

	if c.PreviewWidth < 0 || c.PreviewHeight < 0 {
		return fmt.Errorf("Preview size cannot be negative")
	}
	if c.PreviewWidth == 0 {
		c.PreviewWidth = defaultPreviewWidth
	}
	if c.PreviewHeight == 0 {
		c.PreviewHeight = defaultPreviewHeight
	}

	if c.JPEGQuality == 0 {
		c.JPEGQuality = defaultJPEGQuality
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("JPEGQuality must be between 1 and 100")
	}

	if len(c.ImageFileExtensions) == 0 {
		c.ImageFileExtensions = []string{".png", ".jpg", ".jpeg"}
	}
	for i, ext := range c.ImageFileExtensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.ImageFileExtensions[i] = ext
	}

	return nil
}
