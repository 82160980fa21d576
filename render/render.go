package render

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"guitar-synth/errs"
	"guitar-synth/runner"
)

// Renderer turns one MIDI file into one WAV file
type Renderer interface {
	Render(ctx context.Context, midiPath, wavPath string) error
}

// FluidSynth renders offline through the fluidsynth command line:
//
//	fluidsynth -ni -o audio.driver=null -r 44100 -T wav -F out.wav bank.sf2 in.mid
type FluidSynth struct {
	Binary     string
	SampleBank string
	SampleRate int

	runner *runner.Runner
}

// NewFluidSynth creates a renderer. Each call is bounded by r's timeout.
func NewFluidSynth(binary, sampleBank string, sampleRate int, r *runner.Runner) *FluidSynth {
	return &FluidSynth{
		Binary:     binary,
		SampleBank: sampleBank,
		SampleRate: sampleRate,
		runner:     r,
	}
}

// Args returns the renderer arguments for one file
func (f *FluidSynth) Args(midiPath, wavPath string) []string {
	return []string{
		"-ni",
		"-o", "audio.driver=null", // silent offline render
		"-r", strconv.Itoa(f.SampleRate),
		"-T", "wav",
		"-F", wavPath,
		f.SampleBank,
		midiPath,
	}
}

func (f *FluidSynth) Render(ctx context.Context, midiPath, wavPath string) error {
	_, err := f.runner.Run(ctx, "render", f.Binary, f.Args(midiPath, wavPath)...)
	return err
}

// CheckAvailable verifies the fluidsynth binary can be found
func (f *FluidSynth) CheckAvailable() error {
	_, err := runner.CheckTool(f.Binary)
	return err
}

// FindSampleBank returns the first .sf2 in dir, else the first .sf3
func FindSampleBank(dir string) (string, error) {
	for _, pattern := range []string{"*.sf2", "*.sf3"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return "", fmt.Errorf("search %s: %w", dir, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if filepath.Base(m)[0] != '.' {
				return m, nil
			}
		}
	}
	return "", errs.Missing("no soundfont (.sf2/.sf3) found in %s", dir)
}
