package main

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	lib "github.com/awused/layered-photos/lib"
	"github.com/disintegration/imaging"
	"github.com/urfave/cli/v2"
)

const (
	outputFlag = "output"
	fullFlag   = "full"
)

func previewCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "preview"
	cmd.Usage = "Composite a single photo and write a preview image"
	cmd.ArgsUsage = "FILE"
	cmd.Before = beforeFunc
	cmd.Flags = append(parameterFlags(),
		&cli.StringFlag{
			Name:    outputFlag,
			Aliases: []string{"o"},
			Usage:   "Where to write the preview, defaults to the system temp directory",
		},
		&cli.BoolFlag{
			Name:  fullFlag,
			Usage: "Write the full size composite instead of a thumbnail",
		},
	)

	cmd.Action = previewAction

	return cmd
}

func previewAction(c *cli.Context) error {
	if c.NArg() == 0 {
		checkErr(errors.New("Missing input file"))
	}

	in, err := filepath.Abs(c.Args().First())
	checkErr(err)

	p, err := parametersFromFlags(c)
	checkErr(err)

	comp := newCompositor()
	img, err := comp.Process(in, p)
	checkErr(err)

	if !c.Bool(fullFlag) {
		img = lib.Thumbnail(img, previewSize())
	}

	out := c.String(outputFlag)
	if out == "" {
		out = defaultPreviewPath(in)
	}

	format, err := imaging.FormatFromFilename(out)
	checkErr(err)

	err = lib.SaveImage(img, out, format)
	checkErr(err)

	fmt.Println(out)
	return nil
}

func previewSize() image.Point {
	c, err := lib.GetConfig()
	checkErr(err)
	return image.Pt(c.PreviewWidth, c.PreviewHeight)
}

func defaultPreviewPath(in string) string {
	dir, err := lib.PreviewDir()
	checkErr(err)

	name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	return filepath.Join(dir, "preview_"+name+".png")
}
