package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guitar-synth/errs"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, cfg.Effect.DriveGrid)
	assert.Equal(t, cfg.Effect.DriveGrid, cfg.Effect.ToneGrid)
	assert.Equal(t, 1, cfg.Generate.Count)
	assert.Equal(t, 44100, cfg.Render.SampleRate)
	assert.Equal(t, filepath.Join(".", "midi"), cfg.MIDIPath())
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{0, 50, 100}, Linspace(0, 100, 3))
	assert.Equal(t, []float64{5}, Linspace(5, 9, 1))
	assert.Nil(t, Linspace(0, 1, 0))
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	t.Setenv(EnvRoot, "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Effect.DriveGrid, cfg.Effect.DriveGrid)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv(EnvRoot, "")
	path := filepath.Join(t.TempDir(), "cfg", "config.json")

	cfg, err := Load(path)
	require.NoError(t, err)
	cfg.Root = "/data/guitar"
	cfg.Effect.DriveGrid = []float64{0, 50, 100}
	cfg.Generate.Count = 3
	require.NoError(t, cfg.Save())

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/guitar", back.Root)
	assert.Equal(t, []float64{0, 50, 100}, back.Effect.DriveGrid)
	assert.Equal(t, 3, back.Generate.Count)
	assert.Equal(t, "/data/guitar/distorted", back.DistortedPath())
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{root:"), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, errs.ErrConfiguration)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvRoot, "/tmp/synth")
	t.Setenv(EnvPlugin, "/opt/pedal/drdrive")
	t.Setenv(EnvSeed, "42")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/synth", cfg.Root)
	assert.Equal(t, EffectCommand, cfg.Effect.Kind)
	assert.Equal(t, "/opt/pedal/drdrive", cfg.Effect.PluginPath)
	assert.Equal(t, uint64(42), cfg.Generate.Seed)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty root", func(c *Config) { c.Root = "" }},
		{"empty midi dir", func(c *Config) { c.MIDIDir = "" }},
		{"negative count", func(c *Config) { c.Generate.Count = -1 }},
		{"zero sample rate", func(c *Config) { c.Render.SampleRate = 0 }},
		{"unknown effect", func(c *Config) { c.Effect.Kind = "fuzz" }},
		{"command without plugin", func(c *Config) { c.Effect.Kind = EffectCommand }},
		{"empty drive grid", func(c *Config) { c.Effect.DriveGrid = nil }},
		{"tone out of range", func(c *Config) { c.Effect.ToneGrid = []float64{0, 120} }},
		{"colliding names", func(c *Config) { c.Effect.DriveGrid = []float64{10, 10.2} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, errs.ErrConfiguration)
			assert.True(t, errs.IsFatal(err))
		})
	}
}

func TestValidateRootMustBeDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	cfg := DefaultConfig()
	cfg.Root = file
	assert.ErrorIs(t, cfg.Validate(), errs.ErrConfiguration)
}

func TestPathFollowsLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg, err := Load(path)
	require.NoError(t, err)

	got, err := cfg.Path()
	require.NoError(t, err)
	assert.Equal(t, path, got)

	require.NoError(t, cfg.Save())
	assert.FileExists(t, path)
}
