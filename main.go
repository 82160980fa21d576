package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"guitar-synth/config"
	"guitar-synth/debug"
	"guitar-synth/errs"
	"guitar-synth/logger"
	"guitar-synth/pipeline"
	"guitar-synth/progress"
	"guitar-synth/render"
	"guitar-synth/riff"
	"guitar-synth/sweep"
	"guitar-synth/theme"
	"guitar-synth/tui"
)

var version = "0.1.0"

var (
	configPath string
	rootDir    string
	verbose    bool
	seed       uint64

	count      int
	styles     []string
	pluginPath string
	noProgress bool
	saveConfig bool

	cfg *config.Config
)

func main() {
	err := rootCmd.Execute()
	logger.Flush()
	if debug.Enabled() {
		fmt.Fprintf(os.Stderr, "Trace written to %s\n", cfg.DebugLogPath())
	}
	debug.Disable()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "guitar-synth",
	Short: "Synthesize a corpus of clean and distorted guitar audio",
	Long: `guitar-synth builds a guitar audio dataset in three stages:

  generate  random riffs and chord progressions as MIDI files
  render    MIDI to clean WAV through fluidsynth and a soundfont
  sweep     every clean WAV through a distortion effect over a drive x tone grid`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write random riffs as MIDI files",
	Long: `Write count riffs per style into the MIDI directory as
{prefix}_{index}.mid (clean_riff, dead_riff, clean_chord).

Examples:
  guitar-synth generate --count 10
  guitar-synth generate --style dead_riff --seed 42`,
	RunE: runGenerate,
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render MIDI files to clean WAV with fluidsynth",
	RunE:  runRender,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run clean WAV files through the distortion grid",
	Long: `Process every clean WAV at each drive/tone grid point, writing
{stem}_drive{D}_tone{T}.wav into the distorted directory.

Examples:
  guitar-synth sweep
  guitar-synth sweep --plugin ./bin/drdrive`,
	RunE: runSweep,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration after the config file, environment and flags
are applied. With --save it is written back to the config file.

Examples:
  guitar-synth config
  guitar-synth config --root /data/guitar --seed 7 --save`,
	RunE: runConfig,
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run generate, render and sweep in order",
	RunE:  runAll,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(allCmd)
	rootCmd.AddCommand(configCmd)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Config file (default: ~/.config/guitar-synth/config.json)")
	pf.StringVarP(&rootDir, "root", "r", "", "Dataset root directory")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Verbose output and debug.log trace")
	pf.Uint64Var(&seed, "seed", 0, "Random seed for generate (0 = clock)")

	for _, c := range []*cobra.Command{generateCmd, allCmd} {
		c.Flags().IntVarP(&count, "count", "n", 0, "Riffs per style (default from config)")
		c.Flags().StringSliceVarP(&styles, "style", "s", nil, "Styles to generate (plain, band, chord or file prefix)")
	}
	for _, c := range []*cobra.Command{sweepCmd, allCmd} {
		c.Flags().StringVar(&pluginPath, "plugin", "", "External effect executable (default: built-in overdrive)")
		c.Flags().BoolVar(&noProgress, "no-progress", false, "Plain line output instead of the progress view")
	}
	configCmd.Flags().BoolVar(&saveConfig, "save", false, "Write the effective configuration to the config file")
}

// setup loads configuration, applies flags, and starts logging
func setup(cmd *cobra.Command, args []string) error {
	config.LoadEnv(".env")

	c, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		c.Root = rootDir
	}
	if flags.Changed("verbose") {
		c.Log.Verbose = verbose
	}
	if flags.Changed("seed") {
		c.Generate.Seed = seed
	}
	if flags.Changed("count") {
		c.Generate.Count = count
	}
	if flags.Changed("style") {
		c.Generate.Styles = styles
	}
	if flags.Changed("plugin") {
		c.Effect.Kind = config.EffectCommand
		c.Effect.PluginPath = pluginPath
	}
	if flags.Changed("no-progress") {
		c.UI.Progress = !noProgress
	}

	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c

	logger.SetVerbose(cfg.Log.Verbose)
	if cfg.Log.Verbose {
		if err := debug.Enable(cfg.DebugLogPath()); err != nil {
			logger.Warn("debug log unavailable", logger.Fields{"path": cfg.DebugLogPath(), "error": err.Error()})
		}
	}
	return nil
}

func newPipeline() *pipeline.Pipeline {
	s := cfg.Generate.Seed
	if s == 0 {
		s = riff.ClockSeed()
	}
	p := pipeline.New(cfg, riff.NewRand(s))

	if err := logger.InitSentry(cfg.Log.SentryDSN, cfg.Log.Environment, version, logger.Fields{"run_id": p.RunID}); err != nil {
		logger.Warn("error reporting disabled", logger.Fields{"error": err.Error()})
	}
	logger.Info("run started", logger.Fields{"run_id": p.RunID, "root": cfg.Root, "seed": s})
	return p
}

// reporter picks the progress output and routes log lines away from the
// terminal view while it is running. The returned func restores logging.
func reporter(cancel context.CancelFunc) (progress.Reporter, func()) {
	palette, err := theme.Load(cfg.UI.Palette)
	if err != nil {
		logger.Warn("palette unavailable, using default", logger.Fields{"path": cfg.UI.Palette, "error": err.Error()})
		palette = theme.DefaultPalette()
	}

	rep := progress.New(progress.Options{
		Out:     os.Stderr,
		Enabled: cfg.UI.Progress,
		Verbose: cfg.Log.Verbose,
		Theme:   theme.New(palette),
		OnQuit:  cancel,
	})
	if _, ok := rep.(*tui.Reporter); !ok {
		return rep, rep.Close
	}

	logPath := cfg.Resolve("sweep.log")
	f, err := os.Create(logPath)
	if err != nil {
		return rep, rep.Close
	}
	logger.SetOutput(f)

	var once sync.Once
	return rep, func() {
		once.Do(func() {
			rep.Close()
			logger.SetOutput(os.Stderr)
			f.Close()
			fmt.Printf("Log written to %s\n", logPath)
		})
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	sum, err := newPipeline().Generate(ctx)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Generated %d MIDI files in %s (%.1fs)\n", len(sum.Files), cfg.MIDIPath(), sum.Elapsed.Seconds())
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	p := newPipeline()
	p.OnRendered = progress.NewLine(os.Stderr, cfg.Log.Verbose).Rendered

	sum, err := p.Render(ctx)
	if err != nil {
		return fail(err)
	}
	printRender(sum.Files, len(sum.Rendered), len(sum.Failures), sum.Elapsed.Seconds())
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	p := newPipeline()
	rep, done := reporter(cancel)
	p.Reporter = rep

	sum, err := p.Sweep(ctx)
	done()
	if err != nil {
		return fail(err)
	}
	printSweep(sum.Files, len(sum.Written), len(sum.Failures), sum.Elapsed.Seconds())
	return nil
}

func runAll(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	p := newPipeline()
	p.OnRendered = progress.NewLine(os.Stderr, cfg.Log.Verbose).Rendered

	done := func() {}
	err := p.All(ctx, pipeline.Hooks{
		Generated: func(s *pipeline.GenerateSummary) {
			fmt.Printf("Generated %d MIDI files\n", len(s.Files))
		},
		Rendered: func(s *render.Summary) {
			printRender(s.Files, len(s.Rendered), len(s.Failures), s.Elapsed.Seconds())
		},
		BeforeSweep: func() {
			p.Reporter, done = reporter(cancel)
		},
		Swept: func(s *sweep.Summary) {
			done()
			printSweep(s.Files, len(s.Written), len(s.Failures), s.Elapsed.Seconds())
		},
	})
	done()
	if err != nil {
		return fail(err)
	}
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))

	if !saveConfig {
		return nil
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	path, _ := cfg.Path()
	fmt.Printf("Saved to %s\n", path)
	return nil
}

func printRender(files, rendered, failed int, secs float64) {
	fmt.Printf("Rendered %d/%d files into %s (%.1fs)\n", rendered, files, cfg.CleanPath(), secs)
	if failed > 0 {
		fmt.Printf("  %d failed, see log for commands and stderr\n", failed)
	}
}

func printSweep(files, written, failed int, secs float64) {
	fmt.Printf("Wrote %d files from %d inputs into %s (%.1fs)\n", written, files, cfg.DistortedPath(), secs)
	if failed > 0 {
		fmt.Printf("  %d points failed\n", failed)
	}
}

// fail logs an aborting error before cobra prints it
func fail(err error) error {
	if errs.IsFatal(err) {
		logger.Error("run aborted", err, logger.Fields{})
	} else if errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "Interrupted")
	}
	return err
}
