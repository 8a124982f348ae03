package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	lib "github.com/awused/layered-photos/lib"
	"github.com/urfave/cli/v2"
)

func exportCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "export"
	cmd.Usage = "Composite every photo and write the results to a directory"
	cmd.Description = "Directories are expanded to the image files directly " +
		"inside them. Each output is named processed_<original name>."
	cmd.ArgsUsage = "FILE|DIR..."
	cmd.Before = beforeFunc
	cmd.Flags = append(parameterFlags(),
		&cli.StringFlag{
			Name:    outputFlag,
			Aliases: []string{"o"},
			Usage:   "Output directory, defaults to OutputDirectory from the config",
		},
	)

	cmd.Action = exportAction

	return cmd
}

func exportAction(c *cli.Context) error {
	if c.NArg() == 0 {
		checkErr(errors.New("Missing input files"))
	}

	conf, err := lib.GetConfig()
	checkErr(err)

	outDir := c.String(outputFlag)
	if outDir == "" {
		outDir = conf.OutputDirectory
	}
	if outDir == "" {
		checkErr(errors.New("No output directory given and OutputDirectory is not set"))
	}

	p, err := parametersFromFlags(c)
	checkErr(err)

	job, errs := lib.ExpandJob(c.Args().Slice(), conf.ImageFileExtensions)
	for _, e := range errs {
		fmt.Println("Skipping:", e)
	}
	if len(job) == 0 {
		fmt.Println("No photos to process.")
		return nil
	}

	comp := newCompositor()

	// Stop between photos on SIGINT rather than leaving partial files
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := lib.Export(ctx, comp, job, outDir, p, printProgress)
	fmt.Printf("Wrote %d of %d photos to %s\n", len(report.Written), len(job), outDir)
	if err == lib.ErrCancelled {
		fmt.Println("Cancelled.")
		return nil
	}
	checkErr(err)

	if len(report.Failed) > 0 {
		return cli.Exit(fmt.Sprintf("%d photos failed", len(report.Failed)), 1)
	}
	return nil
}

func printProgress(pr lib.Progress) {
	if pr.Err != nil {
		fmt.Printf("[%d/%d] %s: %s\n", pr.Index, pr.Total, pr.Input, pr.Err)
		return
	}
	fmt.Printf("[%d/%d] %s -> %s\n", pr.Index, pr.Total, pr.Input, pr.Output)
}
