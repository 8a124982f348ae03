package main

import (
	"fmt"
	"image"
	"log"
	"os"

	lib "github.com/awused/layered-photos/lib"
	"github.com/urfave/cli/v2"
)

var settings lib.Settings

func main() {
	defer lib.Cleanup()

	app := cli.NewApp()
	app.Name = "layered-photos"
	app.Usage = "Composite photos onto a fixed set of template layers"
	app.Commands = []*cli.Command{
		previewCommand(),
		exportCommand(),
		interactiveCommand(),
		sampleCommand(),
		settingsCommand(),
	}

	err := app.Run(os.Args)
	checkErr(err)
}

// Only init when necessary
func beforeFunc(ctxt *cli.Context) error {
	c, err := lib.Init()
	checkErr(err)

	if c.LogFile != "" {
		// Left open until the process exits
		f, err := os.OpenFile(c.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatalf("Error opening log file: %v", err)
		}

		log.SetOutput(f)
	}

	settings = lib.LoadSettings(c.SettingsFile)
	return nil
}

func newCompositor() *lib.Compositor {
	c, err := lib.GetConfig()
	checkErr(err)

	comp := lib.NewCompositor(
		image.Pt(c.FallbackWidth, c.FallbackHeight),
		lib.DecodeOptions{AutoOrient: c.AutoOrient})
	for _, w := range comp.ReloadTemplates(settings.TemplatePaths()) {
		fmt.Println("Warning:", w)
	}
	return comp
}

func saveSettings() {
	c, err := lib.GetConfig()
	checkErr(err)

	err = settings.Save(c.SettingsFile)
	checkErr(err)
}

func checkErr(err error) {
	if err != nil {
		log.Println(err)
		panic(err)
	}
}
