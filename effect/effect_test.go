package effect

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guitar-synth/config"
	"guitar-synth/errs"
)

func tone(frames int) *audio.FloatBuffer {
	data := make([]float64, frames)
	for i := range data {
		data[i] = 0.3 * math.Sin(2*math.Pi*220*float64(i)/44100)
	}
	return &audio.FloatBuffer{
		Format: &audio.Format{NumChannels: 1, SampleRate: 44100},
		Data:   data,
	}
}

func peak(data []float64) float64 {
	var p float64
	for _, v := range data {
		p = math.Max(p, math.Abs(v))
	}
	return p
}

func TestOverdriveControlRange(t *testing.T) {
	o := NewOverdrive()
	assert.NoError(t, o.SetControls(0, 100))
	assert.ErrorIs(t, o.SetControls(-1, 50), errs.ErrControlRange)
	assert.ErrorIs(t, o.SetControls(50, 100.5), errs.ErrControlRange)
}

func TestOverdriveIsDeterministic(t *testing.T) {
	ctx := context.Background()
	in := tone(4096)
	orig := append([]float64(nil), in.Data...)

	o := NewOverdrive()
	require.NoError(t, o.SetControls(70, 30))
	a, err := o.Process(ctx, in)
	require.NoError(t, err)

	// run something else in between; state must not leak
	require.NoError(t, o.SetControls(10, 90))
	_, err = o.Process(ctx, in)
	require.NoError(t, err)

	require.NoError(t, o.SetControls(70, 30))
	b, err := o.Process(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, a.Data, b.Data)
	assert.Equal(t, orig, in.Data, "input buffer modified")
	assert.Equal(t, 44100, a.Format.SampleRate)
}

func TestOverdriveDriveAddsGain(t *testing.T) {
	ctx := context.Background()
	in := tone(8192)
	o := NewOverdrive()

	require.NoError(t, o.SetControls(0, 100))
	clean, err := o.Process(ctx, in)
	require.NoError(t, err)

	require.NoError(t, o.SetControls(100, 100))
	driven, err := o.Process(ctx, in)
	require.NoError(t, err)

	assert.Greater(t, peak(driven.Data), peak(clean.Data))
	assert.LessOrEqual(t, peak(driven.Data), outputLevel)
}

func TestOverdriveToneDarkens(t *testing.T) {
	o := NewOverdrive()
	require.NoError(t, o.SetControls(50, 0))
	dark := o.Cutoff()
	require.NoError(t, o.SetControls(50, 100))
	bright := o.Cutoff()

	assert.InDelta(t, toneLowHz, dark, 1e-6)
	assert.InDelta(t, toneHighHz, bright, 1e-6)
}

func TestOverdriveRejectsBadBuffer(t *testing.T) {
	_, err := NewOverdrive().Process(context.Background(), &audio.FloatBuffer{})
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	u, err := Open(config.EffectOverdrive, "", 0)
	require.NoError(t, err)
	assert.Equal(t, "overdrive", u.Name())

	_, err = Open(config.EffectCommand, filepath.Join(t.TempDir(), "missing"), 0)
	assert.ErrorIs(t, err, errs.ErrMissingResource)

	_, err = Open("fuzz", "", 0)
	assert.ErrorIs(t, err, errs.ErrConfiguration)
}

func TestCommandEffect(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs /bin/sh")
	}

	// fake pedal: copies input to output
	script := filepath.Join(t.TempDir(), "pedal.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\ncp \"$5\" \"$6\"\n"), 0755))

	c, err := NewCommand(script, 0)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.SetControls(50, 20))
	assert.Equal(t, []string{"--drive", "50", "--tone", "20"}, c.Args()[:4])

	in := tone(1024)
	out, err := c.Process(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, out.Data, len(in.Data))
	for i := range in.Data {
		require.InDelta(t, in.Data[i], out.Data[i], 1e-6)
	}
}

func TestCommandEffectFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs /bin/sh")
	}

	script := filepath.Join(t.TempDir(), "broken.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho 'unstable at drive' >&2\nexit 2\n"), 0755))

	c, err := NewCommand(script, 0)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Process(context.Background(), tone(64))
	var pe *errs.ProcessError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "effect", pe.Stage)
	assert.Contains(t, pe.Stderr, "unstable")
}
