package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/awused/go-strpick/persistent"
	lib "github.com/awused/layered-photos/lib"
	"github.com/disintegration/imaging"
	"github.com/urfave/cli/v2"
)

const countFlag = "count"

func sampleCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "sample"
	cmd.Usage = "Preview a few photos from a directory, preferring ones that " +
		"haven't been sampled recently"
	cmd.ArgsUsage = "DIR"
	cmd.Before = beforeFunc
	cmd.Flags = append(parameterFlags(),
		&cli.IntFlag{
			Name:    countFlag,
			Aliases: []string{"n"},
			Value:   4,
			Usage:   "Number of photos to preview",
		},
		&cli.StringFlag{
			Name:    outputFlag,
			Aliases: []string{"o"},
			Usage:   "Directory for the previews, defaults to the system temp directory",
		},
	)

	cmd.Action = sampleAction

	return cmd
}

func sampleAction(c *cli.Context) error {
	if c.NArg() == 0 {
		checkErr(errors.New("Missing photo directory"))
	}
	if c.Int(countFlag) <= 0 {
		checkErr(errors.New("count must be greater than 0"))
	}

	conf, err := lib.GetConfig()
	checkErr(err)

	if conf.DatabaseDir == "" {
		checkErr(errors.New("Config missing DatabaseDir"))
	}
	err = os.MkdirAll(conf.DatabaseDir, 0755)
	checkErr(err)

	p, err := parametersFromFlags(c)
	checkErr(err)

	photos, errs := lib.ExpandJob(c.Args().Slice(), conf.ImageFileExtensions)
	for _, e := range errs {
		fmt.Println("Skipping:", e)
	}

	picker, err := persistent.NewPicker(conf.DatabaseDir)
	checkErr(err)
	defer picker.Close()

	err = picker.AddAll(photos)
	checkErr(err)

	sz, err := picker.Size()
	checkErr(err)
	if sz == 0 {
		fmt.Println("No photos found.")
		return nil
	}

	n := c.Int(countFlag)
	if n > len(photos) {
		n = len(photos)
	}

	picked, err := picker.TryUniqueN(n)
	checkErr(err)

	outDir := c.String(outputFlag)
	if outDir == "" {
		outDir, err = lib.PreviewDir()
		checkErr(err)
	}
	err = os.MkdirAll(outDir, 0755)
	checkErr(err)

	comp := newCompositor()
	size := previewSize()

	for _, in := range picked {
		img, err := comp.Process(in, p)
		if err != nil {
			log.Printf("Failed to sample [%s]: %s\n", in, err)
			fmt.Printf("%s: %s\n", in, err)
			continue
		}

		name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		out := filepath.Join(outDir, "preview_"+name+".png")
		if err = lib.SaveImage(lib.Thumbnail(img, size), out, imaging.PNG); err != nil {
			log.Printf("Failed to write sample [%s]: %s\n", out, err)
			fmt.Printf("%s: %s\n", in, err)
			continue
		}
		fmt.Println(out)
	}

	// Forget photos that were deleted or moved
	err = picker.CleanDB()
	checkErr(err)
	return nil
}
