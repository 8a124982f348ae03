package layeredphotoslib

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
)

const outputPrefix = "processed_"

// Progress is reported once for every photo in a job, after it finishes.
type Progress struct {
	Index  int // 1-based
	Total  int
	Input  AbsolutePath
	Output AbsolutePath // empty on failure
	Err    error
}

type ExportReport struct {
	Written []AbsolutePath
	Failed  map[AbsolutePath]error
	// Set when the job was cancelled before every photo was processed
	Cancelled bool
}

// OutputPath derives the output file for input: the base name with a
// "processed_" prefix. Inputs in formats that can't be written keep their name
// with ".png" appended and are written as PNG.
func OutputPath(outDir, input AbsolutePath) (AbsolutePath, imaging.Format) {
	name := outputPrefix + filepath.Base(input)
	format, err := imaging.FormatFromFilename(name)
	if err != nil {
		name += ".png"
		format = imaging.PNG
	}
	return filepath.Join(outDir, name), format
}

// Export composites every photo in job, in order, one at a time, and writes
// the results to outDir. A failed photo is logged and skipped. Cancelling ctx
// stops the job between photos, never in the middle of one.
func Export(
	ctx context.Context,
	c *Compositor,
	job []AbsolutePath,
	outDir AbsolutePath,
	p ParameterSet,
	progress func(Progress)) (ExportReport, error) {

	report := ExportReport{Failed: make(map[AbsolutePath]error)}

	if err := p.Validate(); err != nil {
		return report, err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return report, fmt.Errorf("Error creating output directory [%s]: %w", outDir, err)
	}

	log.Printf("Exporting %d photos to [%s] with %s\n", len(job), outDir, p)

	// Inputs from different directories can share a name
	outputs := make(map[AbsolutePath]AbsolutePath, len(job))
	for _, in := range job {
		out, _ := OutputPath(outDir, in)
		if prev, ok := outputs[out]; ok && prev != in {
			log.Printf("Output [%s] for [%s] overwrites the output for [%s]\n", out, in, prev)
		}
		outputs[out] = in
	}

	for i, in := range job {
		select {
		case <-ctx.Done():
			report.Cancelled = true
			return report, ErrCancelled
		default:
		}

		pr := Progress{Index: i + 1, Total: len(job), Input: in}
		out, err := exportOne(c, in, outDir, p)
		if err != nil {
			log.Printf("Failed to process [%s]: %s\n", in, err)
			report.Failed[in] = err
			pr.Err = err
		} else {
			report.Written = append(report.Written, out)
			pr.Output = out
		}

		if progress != nil {
			progress(pr)
		}
	}

	return report, nil
}

func exportOne(c *Compositor, in, outDir AbsolutePath, p ParameterSet) (AbsolutePath, error) {
	img, err := c.Process(in, p)
	if err != nil {
		return "", err
	}

	out, format := OutputPath(outDir, in)
	if err = SaveImage(img, out, format); err != nil {
		return "", err
	}
	return out, nil
}

// SaveImage encodes img to file. JPEG has no alpha channel so images are
// flattened onto white first.
func SaveImage(img *image.NRGBA, file AbsolutePath, format imaging.Format) error {
	quality := defaultJPEGQuality
	if conf != nil {
		quality = conf.JPEGQuality
	}

	var toEncode image.Image = img
	if format == imaging.JPEG {
		b := img.Bounds()
		flat := imaging.New(b.Dx(), b.Dy(), color.NRGBA{255, 255, 255, 255})
		alphaOver(flat, img, image.Point{})
		toEncode = flat
	}

	wipFile := file + "-wip"
	f, err := os.Create(wipFile)
	if err != nil {
		return err
	}

	err = imaging.Encode(f, toEncode, format, imaging.JPEGQuality(quality))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(wipFile)
		return fmt.Errorf("Error writing [%s]: %w", file, err)
	}

	return os.Rename(wipFile, file)
}

// ExpandJob turns command line arguments into a job. Directories are replaced
// by the image files directly inside them, sorted by name. Arguments that
// can't be read are returned as errors and left out of the job.
func ExpandJob(args []string, extensions []string) ([]AbsolutePath, []error) {
	var job []AbsolutePath
	var errs []error

	for _, a := range args {
		abs, err := filepath.Abs(a)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		fi, err := os.Stat(abs)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if !fi.IsDir() {
			job = append(job, abs)
			continue
		}

		entries, err := os.ReadDir(abs)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		files := []AbsolutePath{}
		for _, e := range entries {
			if e.Type().IsRegular() && hasExtension(e.Name(), extensions) {
				files = append(files, filepath.Join(abs, e.Name()))
			}
		}
		sort.Strings(files)
		job = append(job, files...)
	}

	return job, errs
}

func hasExtension(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range extensions {
		if e == ext {
			return true
		}
	}
	return false
}
