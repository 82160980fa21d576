package sweep

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guitar-synth/effect"
	"guitar-synth/errs"
	"guitar-synth/progress"
	"guitar-synth/wavio"
)

func writeSine(t *testing.T, path string, rate, bitDepth int) {
	t.Helper()
	data := make([]float64, rate/10)
	for i := range data {
		data[i] = 0.5 * math.Sin(2*math.Pi*220*float64(i)/float64(rate))
	}
	buf := &audio.FloatBuffer{
		Format: &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:   data,
	}
	require.NoError(t, wavio.Write(path, buf, bitDepth))
}

func names(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var out []string
	for _, e := range entries {
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

// failingUnit passes audio through but fails at one drive value
type failingUnit struct {
	failDrive   float64
	drive, tone float64
	calls       int
}

func (u *failingUnit) Name() string { return "failing" }

func (u *failingUnit) SetControls(drive, tone float64) error {
	u.drive, u.tone = drive, tone
	return nil
}

func (u *failingUnit) Process(ctx context.Context, buf *audio.FloatBuffer) (*audio.FloatBuffer, error) {
	u.calls++
	if u.drive == u.failDrive {
		return nil, errors.New("plugin crashed")
	}
	return &audio.FloatBuffer{Format: buf.Format, Data: append([]float64(nil), buf.Data...)}, nil
}

func (u *failingUnit) Close() error { return nil }

// recorder captures progress calls
type recorder struct {
	progress.Nop
	started  []string
	points   int
	failed   int
	finished map[string]int
}

func (r *recorder) StartFile(name string, index, files, points int) {
	r.started = append(r.started, name)
}

func (r *recorder) Point(name string, drive, tone float64, err error) {
	r.points++
	if err != nil {
		r.failed++
	}
}

func (r *recorder) FinishFile(name string, written int) {
	if r.finished == nil {
		r.finished = map[string]int{}
	}
	r.finished[name] = written
}

func TestGridOrder(t *testing.T) {
	g := Grid{Drive: []float64{0, 50}, Tone: []float64{0, 100}}
	assert.Equal(t, 4, g.Len())
	assert.Equal(t, []Point{{0, 0}, {0, 100}, {50, 0}, {50, 100}}, g.Points())
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "clean_riff_000_drive50_tone100.wav", OutputName("clean_riff_000", Point{Drive: 50, Tone: 100}))
	assert.Equal(t, "x_drive10_tone0.wav", OutputName("x", Point{Drive: 10, Tone: 0}))
}

func TestSweepSixFiles(t *testing.T) {
	root := t.TempDir()
	in, out := filepath.Join(root, "clean"), filepath.Join(root, "distorted")
	require.NoError(t, os.MkdirAll(in, 0755))
	writeSine(t, filepath.Join(in, "x.wav"), 44100, 16)

	d := &Driver{
		Unit: effect.NewOverdrive(),
		Grid: Grid{Drive: []float64{0, 50, 100}, Tone: []float64{0, 100}},
	}
	sum, err := d.Run(context.Background(), in, out)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Files)
	assert.Empty(t, sum.Failures)
	assert.Len(t, sum.Written, 6)
	assert.Equal(t, []string{
		"x_drive0_tone0.wav",
		"x_drive0_tone100.wav",
		"x_drive100_tone0.wav",
		"x_drive100_tone100.wav",
		"x_drive50_tone0.wav",
		"x_drive50_tone100.wav",
	}, names(t, out))

	clip, err := wavio.Read(filepath.Join(out, "x_drive50_tone0.wav"))
	require.NoError(t, err)
	assert.Equal(t, 44100, clip.SampleRate())
	assert.Equal(t, 16, clip.BitDepth)
	assert.Equal(t, 4410, clip.Frames())
}

func TestSweepKeepsSourceFormat(t *testing.T) {
	root := t.TempDir()
	in, out := filepath.Join(root, "clean"), filepath.Join(root, "distorted")
	require.NoError(t, os.MkdirAll(in, 0755))
	writeSine(t, filepath.Join(in, "y.wav"), 22050, 24)

	d := &Driver{Unit: effect.NewOverdrive(), Grid: Grid{Drive: []float64{25}, Tone: []float64{75}}}
	_, err := d.Run(context.Background(), in, out)
	require.NoError(t, err)

	clip, err := wavio.Read(filepath.Join(out, "y_drive25_tone75.wav"))
	require.NoError(t, err)
	assert.Equal(t, 22050, clip.SampleRate())
	assert.Equal(t, 24, clip.BitDepth)
}

func TestSweepWidensFloatSource(t *testing.T) {
	root := t.TempDir()
	in, out := filepath.Join(root, "clean"), filepath.Join(root, "distorted")
	require.NoError(t, os.MkdirAll(in, 0755))

	samples := make([]float32, 800)
	for i := range samples {
		samples[i] = float32(0.5 * math.Sin(2*math.Pi*220*float64(i)/8000))
	}
	var b bytes.Buffer
	le := func(v any) { require.NoError(t, binary.Write(&b, binary.LittleEndian, v)) }
	b.WriteString("RIFF")
	le(uint32(36 + 4*len(samples)))
	b.WriteString("WAVEfmt ")
	for _, v := range []any{uint32(16), uint16(3), uint16(1), uint32(8000), uint32(32000), uint16(4), uint16(32)} {
		le(v)
	}
	b.WriteString("data")
	le(uint32(4 * len(samples)))
	le(samples)
	require.NoError(t, os.WriteFile(filepath.Join(in, "f.wav"), b.Bytes(), 0644))

	d := &Driver{Unit: effect.NewOverdrive(), Grid: Grid{Drive: []float64{50}, Tone: []float64{50}}}
	sum, err := d.Run(context.Background(), in, out)
	require.NoError(t, err)
	assert.Empty(t, sum.Failures)

	clip, err := wavio.Read(filepath.Join(out, "f_drive50_tone50.wav"))
	require.NoError(t, err)
	assert.False(t, clip.Float)
	assert.Equal(t, 24, clip.BitDepth)
	assert.Equal(t, 800, clip.Frames())
}

func TestSweepSkipsHiddenFiles(t *testing.T) {
	root := t.TempDir()
	in, out := filepath.Join(root, "clean"), filepath.Join(root, "distorted")
	require.NoError(t, os.MkdirAll(in, 0755))
	writeSine(t, filepath.Join(in, "a.wav"), 8000, 16)
	require.NoError(t, os.WriteFile(filepath.Join(in, "._a.wav"), []byte("resource fork"), 0644))

	rec := &recorder{}
	d := &Driver{Unit: effect.NewOverdrive(), Grid: Grid{Drive: []float64{0}, Tone: []float64{0}}, Reporter: rec}
	sum, err := d.Run(context.Background(), in, out)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Files)
	assert.Equal(t, []string{"a.wav"}, rec.started)
	assert.Equal(t, []string{"a_drive0_tone0.wav"}, names(t, out))
}

func TestSweepIsReproducible(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "clean")
	require.NoError(t, os.MkdirAll(in, 0755))
	writeSine(t, filepath.Join(in, "r.wav"), 8000, 16)

	grid := Grid{Drive: []float64{0, 60}, Tone: []float64{20, 90}}
	run := func(out string) {
		d := &Driver{Unit: effect.NewOverdrive(), Grid: grid}
		_, err := d.Run(context.Background(), in, out)
		require.NoError(t, err)
	}
	first, second := filepath.Join(root, "one"), filepath.Join(root, "two")
	run(first)
	run(second)

	for _, name := range names(t, first) {
		a, err := os.ReadFile(filepath.Join(first, name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(second, name))
		require.NoError(t, err)
		assert.True(t, bytes.Equal(a, b), name)
	}
}

func TestSweepContinuesAfterFailedPoint(t *testing.T) {
	root := t.TempDir()
	in, out := filepath.Join(root, "clean"), filepath.Join(root, "distorted")
	require.NoError(t, os.MkdirAll(in, 0755))
	writeSine(t, filepath.Join(in, "a.wav"), 8000, 16)
	writeSine(t, filepath.Join(in, "b.wav"), 8000, 16)

	unit := &failingUnit{failDrive: 50}
	rec := &recorder{}
	d := &Driver{Unit: unit, Grid: Grid{Drive: []float64{0, 50, 100}, Tone: []float64{0, 100}}, Reporter: rec}
	sum, err := d.Run(context.Background(), in, out)
	require.NoError(t, err)

	assert.Equal(t, 12, unit.calls)
	assert.Len(t, sum.Written, 8)
	require.Len(t, sum.Failures, 4)
	f := sum.Failures[0]
	assert.Equal(t, "a.wav", f.File)
	assert.Equal(t, Point{Drive: 50, Tone: 0}, f.Point)
	assert.Contains(t, f.Error(), "drive=50 tone=0")
	assert.Contains(t, f.Error(), "plugin crashed")

	assert.Equal(t, 12, rec.points)
	assert.Equal(t, 4, rec.failed)
	assert.Equal(t, map[string]int{"a.wav": 4, "b.wav": 4}, rec.finished)
}

func TestSweepUnreadableInput(t *testing.T) {
	root := t.TempDir()
	in, out := filepath.Join(root, "clean"), filepath.Join(root, "distorted")
	require.NoError(t, os.MkdirAll(in, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(in, "broken.wav"), []byte("not audio"), 0644))
	writeSine(t, filepath.Join(in, "good.wav"), 8000, 16)

	d := &Driver{Unit: effect.NewOverdrive(), Grid: Grid{Drive: []float64{0, 100}, Tone: []float64{50}}}
	sum, err := d.Run(context.Background(), in, out)
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Files)
	assert.Len(t, sum.Written, 2)
	assert.Len(t, sum.Failures, 2)
	for _, f := range sum.Failures {
		assert.Equal(t, "broken.wav", f.File)
	}
}

func TestSweepMissingInputs(t *testing.T) {
	root := t.TempDir()
	d := &Driver{Unit: effect.NewOverdrive(), Grid: Grid{Drive: []float64{0}, Tone: []float64{0}}}

	_, err := d.Run(context.Background(), filepath.Join(root, "absent"), filepath.Join(root, "out"))
	assert.ErrorIs(t, err, errs.ErrMissingResource)

	empty := filepath.Join(root, "empty")
	require.NoError(t, os.MkdirAll(empty, 0755))
	_, err = d.Run(context.Background(), empty, filepath.Join(root, "out"))
	assert.ErrorIs(t, err, errs.ErrMissingResource)
}

func TestSweepEmptyGrid(t *testing.T) {
	d := &Driver{Unit: effect.NewOverdrive(), Grid: Grid{Drive: []float64{0}}}
	_, err := d.Run(context.Background(), t.TempDir(), t.TempDir())
	assert.ErrorIs(t, err, errs.ErrConfiguration)
}

func TestSweepStopsOnCancel(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "clean")
	require.NoError(t, os.MkdirAll(in, 0755))
	writeSine(t, filepath.Join(in, "a.wav"), 8000, 16)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	unit := &failingUnit{failDrive: -1}
	d := &Driver{Unit: unit, Grid: Grid{Drive: []float64{0}, Tone: []float64{0}}}
	_, err := d.Run(ctx, in, filepath.Join(root, "out"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, unit.calls)
}
