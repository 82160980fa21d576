package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"guitar-synth/debug"
	"guitar-synth/errs"
	"guitar-synth/logger"
	"guitar-synth/scan"
)

// Failure records one file the renderer could not handle
type Failure struct {
	File string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.File, f.Err)
}

// Summary of a render batch
type Summary struct {
	Files    int
	Rendered []string
	Failures []Failure
	Elapsed  time.Duration
}

// Batch renders every MIDI file in a directory, skipping failures
type Batch struct {
	Renderer Renderer
	// OnFile is called after each file with its error (nil on success)
	OnFile func(name string, err error)
}

// Run renders midiDir/*.mid into wavDir/{stem}.wav. A missing or empty input
// directory aborts; per-file failures are logged and skipped. Cancellation
// is checked between files.
func (b *Batch) Run(ctx context.Context, midiDir, wavDir string) (*Summary, error) {
	start := time.Now()

	files, err := scan.Files(midiDir, ".mid", ".midi")
	if err != nil {
		return nil, errs.Missing("midi directory: %v", err)
	}
	if len(files) == 0 {
		return nil, errs.Missing("no MIDI files found in %s", midiDir)
	}

	if err := os.MkdirAll(wavDir, 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", wavDir, err)
	}

	sum := &Summary{Files: len(files)}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			sum.Elapsed = time.Since(start)
			return sum, err
		}

		wavPath := filepath.Join(wavDir, f.Stem+".wav")
		debug.Log("render", "%s -> %s", f.Path, wavPath)
		logger.Debug("rendering", logger.Fields{"file": f.Name, "output": filepath.Base(wavPath)})

		err := b.Renderer.Render(ctx, f.Path, wavPath)
		if err != nil {
			fields := logger.Fields{"stage": "render", "file": f.Name}
			var pe *errs.ProcessError
			if errors.As(err, &pe) {
				fields["command"] = pe.CommandLine()
				fields["exit_code"] = pe.ExitCode
			}
			logger.Error("render failed", err, fields)
			sum.Failures = append(sum.Failures, Failure{File: f.Name, Err: err})
		} else {
			logger.Info("rendered", logger.Fields{"file": f.Name, "output": filepath.Base(wavPath)})
			sum.Rendered = append(sum.Rendered, wavPath)
		}

		if b.OnFile != nil {
			b.OnFile(f.Name, err)
		}
	}

	sum.Elapsed = time.Since(start)
	return sum, nil
}
