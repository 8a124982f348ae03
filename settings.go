package main

import (
	"errors"
	"os"

	"github.com/BurntSushi/toml"
	lib "github.com/awused/layered-photos/lib"
	"github.com/urfave/cli/v2"
)

func settingsCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "settings"
	cmd.Usage = "Print or change the saved settings"
	cmd.Before = beforeFunc
	cmd.Action = printSettingsAction
	cmd.Subcommands = []*cli.Command{
		{
			Name:      "set-template",
			Usage:     "Change the image used for a layer",
			ArgsUsage: "LAYER PATH",
			Action:    setTemplateAction,
		},
		{
			Name:      "toggle",
			Usage:     "Enable or disable a layer",
			ArgsUsage: "LAYER on|off",
			Action:    toggleLayerAction,
		},
		{
			Name:   "reset",
			Usage:  "Reset every parameter to its default, keeping template paths",
			Action: resetSettingsAction,
		},
	}

	return cmd
}

func printSettingsAction(c *cli.Context) error {
	err := toml.NewEncoder(os.Stdout).Encode(settings)
	checkErr(err)
	return nil
}

func setTemplateAction(c *cli.Context) error {
	if c.NArg() != 2 {
		checkErr(errors.New("Expected a layer and a path"))
	}

	l, err := lib.ParseLayer(c.Args().Get(0))
	checkErr(err)

	err = settings.SetTemplatePath(l, c.Args().Get(1))
	checkErr(err)

	// Load it once so a broken image is reported now rather than at export
	newCompositor()

	saveSettings()
	return nil
}

func toggleLayerAction(c *cli.Context) error {
	if c.NArg() != 2 {
		checkErr(errors.New("Expected a layer and on or off"))
	}

	l, err := lib.ParseLayer(c.Args().Get(0))
	checkErr(err)

	p := settings.Parameters()
	err = p.SetLayerField(l, c.Args().Get(1))
	checkErr(err)

	settings.SetParameters(p)
	saveSettings()
	return nil
}

func resetSettingsAction(c *cli.Context) error {
	settings.SetParameters(lib.DefaultParameters())
	saveSettings()
	return nil
}
