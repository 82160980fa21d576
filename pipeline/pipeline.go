// Package pipeline wires the three stages (generate, render, sweep) to the
// configured directories and external tools.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"guitar-synth/config"
	"guitar-synth/effect"
	"guitar-synth/logger"
	"guitar-synth/midi"
	"guitar-synth/progress"
	"guitar-synth/render"
	"guitar-synth/riff"
	"guitar-synth/runner"
	"guitar-synth/sweep"
)

// Pipeline runs the stages against one configuration. Renderer and Unit
// are built from the configuration when left nil.
type Pipeline struct {
	Config   *config.Config
	RunID    string
	Rand     riff.Rand
	Renderer render.Renderer
	Unit     effect.Unit
	Reporter progress.Reporter

	// OnRendered is called after each MIDI file with its render error
	OnRendered func(name string, err error)
}

// New creates a pipeline with a fresh run id
func New(cfg *config.Config, r riff.Rand) *Pipeline {
	return &Pipeline{
		Config: cfg,
		RunID:  uuid.NewString(),
		Rand:   r,
	}
}

// GenerateSummary lists the MIDI files written
type GenerateSummary struct {
	Files   []string
	Elapsed time.Duration
}

// Generate writes Count riffs per configured style into the MIDI directory
func (p *Pipeline) Generate(ctx context.Context) (*GenerateSummary, error) {
	start := time.Now()

	styles, err := p.styles()
	if err != nil {
		return nil, err
	}

	dir := p.Config.MIDIPath()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	sum := &GenerateSummary{}
	for _, job := range riff.Plan(styles, p.Config.Generate.Count, p.Rand) {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		rf := job.Compose(p.Rand)
		path := filepath.Join(dir, job.Filename())
		if err := midi.WriteFile(path, rf.Track); err != nil {
			return sum, fmt.Errorf("write %s: %w", job.Filename(), err)
		}

		fields := logger.Fields{
			"run_id": p.RunID,
			"file":   job.Filename(),
			"tempo":  job.Tempo,
			"bars":   job.Bars,
			"events": len(rf.Track.Events),
		}
		if rf.Scale.Name != "" {
			fields["scale"] = rf.Scale.Name
			fields["root"] = rf.Root
		}
		logger.Info("generated", fields)
		sum.Files = append(sum.Files, path)
	}

	sum.Elapsed = time.Since(start)
	return sum, nil
}

func (p *Pipeline) styles() ([]riff.Style, error) {
	if len(p.Config.Generate.Styles) == 0 {
		return riff.AllStyles, nil
	}
	var styles []riff.Style
	for _, name := range p.Config.Generate.Styles {
		s, err := riff.ParseStyle(name)
		if err != nil {
			return nil, fmt.Errorf("generate.styles: %w", err)
		}
		styles = append(styles, s)
	}
	return styles, nil
}

// Render turns every MIDI file into a clean WAV
func (p *Pipeline) Render(ctx context.Context) (*render.Summary, error) {
	r := p.Renderer
	if r == nil {
		fs, err := p.fluidSynth()
		if err != nil {
			return nil, err
		}
		r = fs
	}

	b := &render.Batch{Renderer: r, OnFile: p.OnRendered}
	sum, err := b.Run(ctx, p.Config.MIDIPath(), p.Config.CleanPath())
	if sum != nil {
		logger.Info("render finished", logger.Fields{
			"run_id":   p.RunID,
			"files":    sum.Files,
			"rendered": len(sum.Rendered),
			"failed":   len(sum.Failures),
			"elapsed":  sum.Elapsed,
		})
	}
	return sum, err
}

func (p *Pipeline) fluidSynth() (*render.FluidSynth, error) {
	cfg := p.Config
	bank, err := render.FindSampleBank(cfg.SoundfontPath())
	if err != nil {
		return nil, err
	}
	fs := render.NewFluidSynth(cfg.Render.Binary, bank, cfg.Render.SampleRate, runner.New(cfg.RenderTimeout()))
	if err := fs.CheckAvailable(); err != nil {
		return nil, err
	}
	logger.Info("renderer ready", logger.Fields{"binary": fs.Binary, "soundfont": filepath.Base(bank)})
	return fs, nil
}

// Sweep runs every clean WAV through the effect grid
func (p *Pipeline) Sweep(ctx context.Context) (*sweep.Summary, error) {
	cfg := p.Config
	unit := p.Unit
	if unit == nil {
		u, err := effect.Open(cfg.Effect.Kind, cfg.Effect.PluginPath, cfg.EffectTimeout())
		if err != nil {
			return nil, err
		}
		defer u.Close()
		unit = u
	}

	d := &sweep.Driver{
		Unit:     unit,
		Grid:     sweep.Grid{Drive: cfg.Effect.DriveGrid, Tone: cfg.Effect.ToneGrid},
		Reporter: p.Reporter,
	}
	sum, err := d.Run(ctx, cfg.CleanPath(), cfg.DistortedPath())
	if sum != nil {
		logger.Info("sweep finished", logger.Fields{
			"run_id":  p.RunID,
			"effect":  unit.Name(),
			"files":   sum.Files,
			"written": len(sum.Written),
			"failed":  len(sum.Failures),
			"elapsed": sum.Elapsed,
		})
	}
	return sum, err
}

// Hooks are called between the stages of All. Any of them may be nil.
type Hooks struct {
	Generated   func(*GenerateSummary)
	Rendered    func(*render.Summary)
	BeforeSweep func()
	Swept       func(*sweep.Summary)
}

// All runs generate, render and sweep in order, stopping at the first
// stage that aborts.
func (p *Pipeline) All(ctx context.Context, h Hooks) error {
	gen, err := p.Generate(ctx)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	if h.Generated != nil {
		h.Generated(gen)
	}

	ren, err := p.Render(ctx)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if h.Rendered != nil {
		h.Rendered(ren)
	}

	if h.BeforeSweep != nil {
		h.BeforeSweep()
	}
	sw, err := p.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	if h.Swept != nil {
		h.Swept(sw)
	}
	return nil
}
