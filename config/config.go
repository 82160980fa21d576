package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"guitar-synth/errs"
)

// EffectKind selects the effect unit implementation
type EffectKind string

const (
	EffectOverdrive EffectKind = "overdrive" // built-in, deterministic
	EffectCommand   EffectKind = "command"   // external executable at PluginPath
)

// GenerateConfig controls the riff stage
type GenerateConfig struct {
	// Riffs per style
	Count int `json:"count"`
	// Zero seeds from the clock
	Seed uint64 `json:"seed,omitempty"`
	// Empty means all styles
	Styles []string `json:"styles,omitempty"`
}

// RenderConfig controls the MIDI to WAV stage
type RenderConfig struct {
	Binary         string `json:"binary"`
	SampleRate     int    `json:"sampleRate"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

// EffectConfig controls the distortion sweep
type EffectConfig struct {
	Kind           EffectKind `json:"kind"`
	PluginPath     string     `json:"pluginPath,omitempty"`
	TimeoutSeconds int        `json:"timeoutSeconds"`
	DriveGrid      []float64  `json:"driveGrid"`
	ToneGrid       []float64  `json:"toneGrid"`
}

// UIConfig stores terminal preferences
type UIConfig struct {
	// Interactive progress view when stdout is a terminal
	Progress bool `json:"progress"`
	// Optional GIMP palette file
	Palette string `json:"palette,omitempty"`
}

// LogConfig controls logging and error reporting
type LogConfig struct {
	Verbose     bool   `json:"verbose"`
	SentryDSN   string `json:"sentryDsn,omitempty"`
	Environment string `json:"environment,omitempty"`
}

// Config is the main configuration structure. Directories are relative to
// Root unless absolute.
type Config struct {
	Root         string `json:"root"`
	MIDIDir      string `json:"midiDir"`
	CleanDir     string `json:"cleanDir"`
	DistortedDir string `json:"distortedDir"`
	SoundfontDir string `json:"soundfontDir"`

	Generate GenerateConfig `json:"generate"`
	Render   RenderConfig   `json:"render"`
	Effect   EffectConfig   `json:"effect"`
	UI       UIConfig       `json:"ui"`
	Log      LogConfig      `json:"log"`

	path string
}

// DefaultConfig returns a config with the documented defaults
func DefaultConfig() *Config {
	return &Config{
		Root:         ".",
		MIDIDir:      "midi",
		CleanDir:     "clean",
		DistortedDir: "distorted",
		SoundfontDir: "soundfonts",
		Generate: GenerateConfig{
			Count: 1,
		},
		Render: RenderConfig{
			Binary:         "fluidsynth",
			SampleRate:     44100,
			TimeoutSeconds: 120,
		},
		Effect: EffectConfig{
			Kind:           EffectOverdrive,
			TimeoutSeconds: 60,
			DriveGrid:      Linspace(0, 100, 11),
			ToneGrid:       Linspace(0, 100, 11),
		},
		UI: UIConfig{
			Progress: true,
		},
		Log: LogConfig{
			Environment: "development",
		},
	}
}

// Linspace returns n evenly spaced values from start to stop inclusive
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "guitar-synth"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from path (or the default location when empty),
// returning defaults if the file does not exist. Environment overrides are
// applied on top.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			cfg := DefaultConfig()
			cfg.applyEnv()
			return cfg, nil
		}
		path = p
	}

	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errs.Config("file", "parse %s: %v", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadEnv reads .env files into the process environment. Missing files are ignored.
func LoadEnv(files ...string) {
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// Environment overrides
const (
	EnvRoot       = "GUITAR_SYNTH_ROOT"
	EnvSoundfonts = "GUITAR_SYNTH_SOUNDFONT_DIR"
	EnvRenderer   = "GUITAR_SYNTH_FLUIDSYNTH"
	EnvPlugin     = "GUITAR_SYNTH_PLUGIN"
	EnvSeed       = "GUITAR_SYNTH_SEED"
	EnvSentryDSN  = "SENTRY_DSN"
	EnvName       = "ENVIRONMENT"
)

func (c *Config) applyEnv() {
	c.Root = getEnv(EnvRoot, c.Root)
	c.SoundfontDir = getEnv(EnvSoundfonts, c.SoundfontDir)
	c.Render.Binary = getEnv(EnvRenderer, c.Render.Binary)
	if plugin := os.Getenv(EnvPlugin); plugin != "" {
		c.Effect.Kind = EffectCommand
		c.Effect.PluginPath = plugin
	}
	if seed, err := strconv.ParseUint(os.Getenv(EnvSeed), 10, 64); err == nil {
		c.Generate.Seed = seed
	}
	c.Log.SentryDSN = getEnv(EnvSentryDSN, c.Log.SentryDSN)
	c.Log.Environment = getEnv(EnvName, c.Log.Environment)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

// Path is the file the config was loaded from, or the default location
func (c *Config) Path() (string, error) {
	if c.path != "" {
		return c.path, nil
	}
	return ConfigPath()
}

// Save writes the config to Path
func (c *Config) Save() error {
	path, err := c.Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate reports the first configuration problem as an ErrConfiguration
func (c *Config) Validate() error {
	if c.Root == "" {
		return errs.Config("root", "must not be empty")
	}
	if info, err := os.Stat(c.Root); err == nil && !info.IsDir() {
		return errs.Config("root", "%s is not a directory", c.Root)
	}
	for name, dir := range map[string]string{
		"midiDir":      c.MIDIDir,
		"cleanDir":     c.CleanDir,
		"distortedDir": c.DistortedDir,
		"soundfontDir": c.SoundfontDir,
	} {
		if dir == "" {
			return errs.Config(name, "must not be empty")
		}
	}
	if c.Generate.Count < 0 {
		return errs.Config("generate.count", "must be >= 0, got %d", c.Generate.Count)
	}
	if c.Render.Binary == "" {
		return errs.Config("render.binary", "must not be empty")
	}
	if c.Render.SampleRate <= 0 {
		return errs.Config("render.sampleRate", "must be positive, got %d", c.Render.SampleRate)
	}
	switch c.Effect.Kind {
	case EffectOverdrive:
	case EffectCommand:
		if c.Effect.PluginPath == "" {
			return errs.Config("effect.pluginPath", "required for kind %q", c.Effect.Kind)
		}
	default:
		return errs.Config("effect.kind", "unknown kind %q", c.Effect.Kind)
	}
	if err := validateGrid("effect.driveGrid", c.Effect.DriveGrid); err != nil {
		return err
	}
	return validateGrid("effect.toneGrid", c.Effect.ToneGrid)
}

// validateGrid checks range and that values stay distinct once formatted
// into file names.
func validateGrid(field string, grid []float64) error {
	if len(grid) == 0 {
		return errs.Config(field, "must not be empty")
	}
	seen := make(map[string]bool)
	for _, v := range grid {
		if v < 0 || v > 100 {
			return errs.Config(field, "value %g outside [0,100]", v)
		}
		label := fmt.Sprintf("%.0f", v)
		if seen[label] {
			return errs.Config(field, "values collide in file names at %s", label)
		}
		seen[label] = true
	}
	return nil
}

// Resolve joins dir onto Root unless it is absolute
func (c *Config) Resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.Root, dir)
}

func (c *Config) MIDIPath() string      { return c.Resolve(c.MIDIDir) }
func (c *Config) CleanPath() string     { return c.Resolve(c.CleanDir) }
func (c *Config) DistortedPath() string { return c.Resolve(c.DistortedDir) }
func (c *Config) SoundfontPath() string { return c.Resolve(c.SoundfontDir) }
func (c *Config) DebugLogPath() string  { return c.Resolve("debug.log") }

// RenderTimeout is the per-file renderer deadline
func (c *Config) RenderTimeout() time.Duration {
	return time.Duration(c.Render.TimeoutSeconds) * time.Second
}

// EffectTimeout is the per-point deadline for external effects
func (c *Config) EffectTimeout() time.Duration {
	return time.Duration(c.Effect.TimeoutSeconds) * time.Second
}
