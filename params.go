package main

import (
	lib "github.com/awused/layered-photos/lib"
	"github.com/urfave/cli/v2"
)

const (
	enableFlag  = "enable"
	disableFlag = "disable"
	saveFlag    = "save"
)

// Flags that override the saved parameters for a single run
func parameterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{
			Name:    lib.FieldScale,
			Aliases: []string{"s"},
			Usage:   "Scale of the photo on the canvas, as a percentage",
		},
		&cli.IntFlag{
			Name:  lib.FieldXOffset,
			Usage: "Horizontal offset in pixels, positive values move the photo right",
		},
		&cli.IntFlag{
			Name:  lib.FieldYOffset,
			Usage: "Vertical offset in pixels, positive values move the photo down",
		},
		&cli.Float64Flag{
			Name:  lib.FieldOverlayScale,
			Usage: "Scale of the overlay layer, as a percentage",
		},
		&cli.Float64Flag{
			Name:    lib.FieldCropTop,
			Aliases: []string{"t"},
			Usage:   "Percentage of the photo's height to crop off the top",
		},
		&cli.Float64Flag{
			Name:    lib.FieldCropBottom,
			Aliases: []string{"b"},
			Usage:   "Percentage of the photo's height to crop off the bottom",
		},
		&cli.Float64Flag{
			Name:    lib.FieldCropRight,
			Aliases: []string{"r"},
			Usage:   "Percentage of the photo's width to crop off the right side",
		},
		&cli.BoolFlag{
			Name:  lib.FieldCornerCrop,
			Usage: "Punch a transparent square out of the photo's top right corner",
		},
		&cli.Float64Flag{
			Name:  lib.FieldCornerSize,
			Usage: "Side of the corner square, as a percentage of the photo's width",
		},
		&cli.StringSliceFlag{
			Name:  enableFlag,
			Usage: "Layers to enable (base, mask, overlay, top)",
		},
		&cli.StringSliceFlag{
			Name:  disableFlag,
			Usage: "Layers to disable (base, mask, overlay, top)",
		},
		&cli.BoolFlag{
			Name:  saveFlag,
			Usage: "Save any overridden parameters as the new defaults",
		},
	}
}

// Applies any parameter flags on top of the saved settings
func parametersFromFlags(c *cli.Context) (lib.ParameterSet, error) {
	p := settings.Parameters()

	if c.IsSet(lib.FieldScale) {
		p.Scale = c.Float64(lib.FieldScale)
	}
	if c.IsSet(lib.FieldXOffset) {
		p.XOffset = c.Int(lib.FieldXOffset)
	}
	if c.IsSet(lib.FieldYOffset) {
		p.YOffset = c.Int(lib.FieldYOffset)
	}
	if c.IsSet(lib.FieldOverlayScale) {
		p.OverlayScale = c.Float64(lib.FieldOverlayScale)
	}
	if c.IsSet(lib.FieldCropTop) {
		p.CropTop = c.Float64(lib.FieldCropTop)
	}
	if c.IsSet(lib.FieldCropBottom) {
		p.CropBottom = c.Float64(lib.FieldCropBottom)
	}
	if c.IsSet(lib.FieldCropRight) {
		p.CropRight = c.Float64(lib.FieldCropRight)
	}
	if c.IsSet(lib.FieldCornerCrop) {
		p.CornerCrop = c.Bool(lib.FieldCornerCrop)
	}
	if c.IsSet(lib.FieldCornerSize) {
		p.CornerSize = c.Float64(lib.FieldCornerSize)
	}

	for _, s := range c.StringSlice(enableFlag) {
		l, err := lib.ParseLayer(s)
		if err != nil {
			return p, err
		}
		p.Enabled[l] = true
	}
	for _, s := range c.StringSlice(disableFlag) {
		l, err := lib.ParseLayer(s)
		if err != nil {
			return p, err
		}
		p.Enabled[l] = false
	}

	if err := p.Validate(); err != nil {
		return p, err
	}

	if c.Bool(saveFlag) {
		settings.SetParameters(p)
		saveSettings()
	}
	return p, nil
}
