package sweep

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"guitar-synth/debug"
	"guitar-synth/effect"
	"guitar-synth/errs"
	"guitar-synth/logger"
	"guitar-synth/progress"
	"guitar-synth/scan"
	"guitar-synth/wavio"
)

// Failure records one (file, point) that produced no output
type Failure struct {
	File  string
	Point Point
	Err   error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.File, f.Point, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Summary of a sweep run
type Summary struct {
	Files    int
	Written  []string
	Failures []Failure
	Elapsed  time.Duration
}

// Driver runs every input file through one effect unit at every grid point
type Driver struct {
	Unit     effect.Unit
	Grid     Grid
	Reporter progress.Reporter // nil = silent
}

// Run processes inputDir/*.wav into outputDir. Files go in name order and
// points in grid order, sequentially against the one unit. A missing or
// empty input directory aborts; anything that fails for a single point is
// recorded and the sweep moves on. Cancellation is checked between files.
func (d *Driver) Run(ctx context.Context, inputDir, outputDir string) (*Summary, error) {
	start := time.Now()

	if d.Grid.Len() == 0 {
		return nil, errs.Config("effect grid", "no points to sweep")
	}

	files, err := scan.Files(inputDir, ".wav")
	if err != nil {
		return nil, errs.Missing("input directory: %v", err)
	}
	if len(files) == 0 {
		return nil, errs.Missing("no WAV files found in %s", inputDir)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", outputDir, err)
	}

	rep := d.Reporter
	if rep == nil {
		rep = progress.Nop{}
	}

	points := d.Grid.Points()
	sum := &Summary{Files: len(files)}
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			sum.Elapsed = time.Since(start)
			return sum, err
		}

		rep.StartFile(f.Name, i, len(files), len(points))
		written := d.file(ctx, f, points, outputDir, sum, rep)
		rep.FinishFile(f.Name, written)

		logger.Info("swept", logger.Fields{
			"file":    f.Name,
			"written": written,
			"points":  len(points),
			"effect":  d.Unit.Name(),
		})
	}

	sum.Elapsed = time.Since(start)
	return sum, nil
}

// file sweeps one input and returns how many outputs it wrote
func (d *Driver) file(ctx context.Context, f scan.File, points []Point, outputDir string, sum *Summary, rep progress.Reporter) int {
	fail := func(p Point, stage string, err error) {
		logger.Error("sweep failed", err, logger.Fields{
			"stage": stage,
			"file":  f.Name,
			"drive": p.Drive,
			"tone":  p.Tone,
		})
		sum.Failures = append(sum.Failures, Failure{File: f.Name, Point: p, Err: err})
		rep.Point(f.Name, p.Drive, p.Tone, err)
	}

	clip, err := wavio.Read(f.Path)
	if err != nil {
		// nothing can be produced for this file
		for _, p := range points {
			fail(p, "load", err)
		}
		return 0
	}
	debug.Log("sweep", "%s: %d ch @ %d Hz, %d bit, %d frames",
		f.Name, clip.Channels(), clip.SampleRate(), clip.BitDepth, clip.Frames())

	written := 0
	for _, p := range points {
		if ctx.Err() != nil {
			break
		}

		if err := d.Unit.SetControls(p.Drive, p.Tone); err != nil {
			fail(p, "controls", err)
			continue
		}

		out, err := d.Unit.Process(ctx, clip.Buffer)
		if err != nil {
			fail(p, "process", err)
			continue
		}

		path := filepath.Join(outputDir, OutputName(f.Stem, p))
		if err := wavio.Write(path, out, clip.OutputDepth()); err != nil {
			fail(p, "write", err)
			continue
		}

		debug.Log("sweep", "%s %s -> %s", f.Name, p, filepath.Base(path))
		sum.Written = append(sum.Written, path)
		rep.Point(f.Name, p.Drive, p.Tone, nil)
		written++
	}
	return written
}
