package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/BurntSushi/toml"
	lib "github.com/awused/layered-photos/lib"
	prompt "github.com/c-bata/go-prompt"
	"github.com/disintegration/imaging"
	"github.com/urfave/cli/v2"
)

func interactiveCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "interactive"
	cmd.Usage = "Interactively tune the parameters, re-rendering a preview " +
		"after every change."
	cmd.ArgsUsage = "FILE|DIR..."
	cmd.Before = beforeFunc
	cmd.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    outputFlag,
			Aliases: []string{"o"},
			Usage:   "Where to write the preview, defaults to the system temp directory",
		},
	}

	cmd.Action = interactiveAction

	return cmd
}

func interactiveAction(c *cli.Context) error {
	if c.NArg() == 0 {
		checkErr(errors.New("Missing input file"))
	}

	conf, err := lib.GetConfig()
	checkErr(err)

	photos, errs := lib.ExpandJob(c.Args().Slice(), conf.ImageFileExtensions)
	for _, e := range errs {
		fmt.Println("Skipping:", e)
	}
	if len(photos) == 0 {
		checkErr(errors.New("No photos to preview"))
	}

	out := c.String(outputFlag)
	if out == "" {
		// Removed along with the temp dir when the session ends
		tdir, err := lib.TempDir()
		checkErr(err)
		out = filepath.Join(tdir, "preview.png")
	}

	// Large buffered channel so it doesn't block signals if it's busy
	sigs := make(chan os.Signal, 100)
	promptChan := make(chan struct{}, 1)
	inputChan := make(chan string)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGHUP)

	go func() {
		s := newSession(photos, out)
		s.promptUntilDone(inputChan)
		s.close()
		promptChan <- struct{}{}
	}()

	for {
		select {
		case <-promptChan:
			return nil
		case <-sigs:
			// We need to make sure we clean up, so consume sigint
			inputChan <- "exit"
		}
	}
}

type session struct {
	photos  []string
	current int
	params  lib.ParameterSet
	comp    *lib.Compositor
	preview *lib.Previewer
	outFile string
}

func newSession(photos []string, outFile string) *session {
	s := &session{
		photos:  photos,
		params:  settings.Parameters(),
		comp:    newCompositor(),
		outFile: outFile,
	}
	s.preview = lib.NewPreviewer(s.comp, previewSize(), s.showPreview)
	return s
}

func (s *session) close() {
	s.preview.Close()
}

// Parameter and template changes are kept whenever the session ends normally
func (s *session) persist() error {
	c, err := lib.GetConfig()
	if err != nil {
		return err
	}

	settings.SetParameters(s.params)
	return settings.Save(c.SettingsFile)
}

// Called from the previewer's goroutine
func (s *session) showPreview(r lib.PreviewResult) {
	if r.Err != nil {
		log.Printf("Error previewing [%s]: %s\n", r.Path, r.Err)
		fmt.Printf("\nError previewing [%s]: %s\n", r.Path, r.Err)
		return
	}

	format, err := imaging.FormatFromFilename(s.outFile)
	if err == nil {
		err = lib.SaveImage(r.Thumbnail, s.outFile, format)
	}
	if err != nil {
		log.Printf("Error writing preview [%s]: %s\n", s.outFile, err)
		fmt.Printf("\nError writing preview: %s\n", err)
		return
	}
	fmt.Printf("\nPreview of %s written to %s\n", filepath.Base(r.Path), s.outFile)
}

func (s *session) refresh() {
	s.preview.Request(s.photos[s.current], s.params)
}

var fieldDescriptions = []prompt.Suggest{
	{Text: lib.FieldScale, Description: "Set the scale of the photo (%)"},
	{Text: lib.FieldXOffset, Description: "Set the horizontal offset (pixels)"},
	{Text: lib.FieldYOffset, Description: "Set the vertical offset (pixels)"},
	{Text: lib.FieldOverlayScale, Description: "Set the scale of the overlay layer (%)"},
	{Text: lib.FieldCropTop, Description: "Set the crop off the top of the photo (%)"},
	{Text: lib.FieldCropBottom, Description: "Set the crop off the bottom of the photo (%)"},
	{Text: lib.FieldCropRight, Description: "Set the crop off the right of the photo (%)"},
	{Text: lib.FieldCornerCrop, Description: "Turn the top right corner punch on or off"},
	{Text: lib.FieldCornerSize, Description: "Set the size of the corner punch (%)"},
}

func completer(d prompt.Document) []prompt.Suggest {
	s := []prompt.Suggest{
		{Text: "exit", Description: "Save the settings and exit"},
		{Text: "discard", Description: "Exit without saving any changes"},
		{Text: "print", Description: "Print the settings in the settings file format"},
		{Text: "reset", Description: "Reset all parameters to their defaults"},
		{Text: "save", Description: "Save the current parameters as the defaults"},
		{Text: "next", Description: "Preview the next photo"},
		{Text: "prev", Description: "Preview the previous photo"},
		{Text: "enable", Description: "Enable a layer (base, mask, overlay, top)"},
		{Text: "disable", Description: "Disable a layer (base, mask, overlay, top)"},
		{Text: "template", Description: "Change a layer's image: template LAYER PATH"},
		{Text: "export", Description: "Export every photo: export DIR"},
	}
	s = append(s, fieldDescriptions...)
	return prompt.FilterHasPrefix(s, d.TextBeforeCursor(), true)
}

func printSettings(p lib.ParameterSet) {
	s := settings
	s.SetParameters(p)
	err := toml.NewEncoder(os.Stdout).Encode(s)
	if err != nil {
		fmt.Println("Error:", err)
	}
}

func (s *session) setField(field string) func(string) {
	return func(input string) {
		if err := s.params.SetField(field, input); err != nil {
			fmt.Println(err)
			return
		}
		s.refresh()
	}
}

func (s *session) setLayer(enabled bool) func(string) {
	return func(input string) {
		l, err := lib.ParseLayer(input)
		if err != nil {
			fmt.Println(err)
			return
		}
		s.params.Enabled[l] = enabled
		s.refresh()
	}
}

func (s *session) setTemplate(input string) {
	parts := strings.SplitN(input, " ", 2)
	if len(parts) != 2 {
		fmt.Println("Usage: template LAYER PATH")
		return
	}

	l, err := lib.ParseLayer(parts[0])
	if err != nil {
		fmt.Println(err)
		return
	}

	err = settings.SetTemplatePath(l, strings.TrimSpace(parts[1]))
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, w := range s.comp.ReloadTemplates(settings.TemplatePaths()) {
		fmt.Println("Warning:", w)
	}
	s.refresh()
}

func (s *session) export(dir string) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		fmt.Println("Usage: export DIR")
		return
	}

	report, err := lib.Export(
		context.Background(), s.comp, s.photos, dir, s.params, printProgress)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Wrote %d of %d photos to %s\n", len(report.Written), len(s.photos), dir)
}

func (s *session) promptUntilDone(inputChan chan string) {
	executors := map[string]func(string){
		"enable ":   s.setLayer(true),
		"disable ":  s.setLayer(false),
		"template ": s.setTemplate,
		"export ":   s.export,
	}
	for _, f := range fieldDescriptions {
		executors[f.Text+" "] = s.setField(f.Text)
	}

	exit := prompt.OptionAddKeyBind(prompt.KeyBind{
		Key: prompt.ControlC,
		Fn: func(b *prompt.Buffer) {
			inputChan <- "exit"
		},
	})

	fmt.Println("Previewing...")
	s.refresh()

PromptLoop:
	for {
		go func() {
			// prompt.Input is blocking, synchronous, and provides no way to abort it
			inputChan <- strings.TrimSpace(prompt.Input("> ", completer, exit))
		}()
		in := <-inputChan

		switch strings.ToLower(in) {
		case "exit":
			if err := s.persist(); err != nil {
				log.Println("Error saving settings:", err)
				fmt.Println("Error saving settings:", err)
			}
			return
		case "discard":
			return
		case "print":
			printSettings(s.params)
			continue
		case "reset":
			s.params = lib.DefaultParameters()
			s.refresh()
			continue
		case "save":
			if err := s.persist(); err != nil {
				fmt.Println("Error saving settings:", err)
				continue
			}
			fmt.Println("Saved.")
			continue
		case "next":
			s.current = (s.current + 1) % len(s.photos)
			s.refresh()
			continue
		case "prev":
			s.current = (s.current + len(s.photos) - 1) % len(s.photos)
			s.refresh()
			continue
		}

		// Very naive, but adequate
		for prefix, e := range executors {
			if strings.HasPrefix(strings.ToLower(in), prefix) {
				e(in[len(prefix):])
				continue PromptLoop
			}
		}

		fmt.Println("Unknown command")
	}
}
