package effect

import (
	"context"
	"fmt"
	"math"

	"github.com/go-audio/audio"
)

// Overdrive voicing
const (
	maxDriveDB  = 40.0    // pre-gain at drive=100
	outputLevel = 0.8     // post-clip level
	toneLowHz   = 400.0   // low-pass cutoff at tone=0
	toneHighHz  = 12000.0 // low-pass cutoff at tone=100
)

// Overdrive is a soft-clipping drive pedal: pre-gain into a tanh waveshaper,
// then a one-pole low-pass whose cutoff follows the tone control. It is
// deterministic; filter memory is cleared at the start of every Process call.
type Overdrive struct {
	drive, tone float64
	lp          []float64 // filter state per channel
}

// NewOverdrive creates an overdrive with both controls at zero
func NewOverdrive() *Overdrive {
	return &Overdrive{}
}

func (o *Overdrive) Name() string { return "overdrive" }

func (o *Overdrive) SetControls(drive, tone float64) error {
	if err := checkControls(drive, tone); err != nil {
		return err
	}
	o.drive, o.tone = drive, tone
	return nil
}

// Gain is the linear pre-gain for the current drive setting
func (o *Overdrive) Gain() float64 {
	return math.Pow(10, o.drive/100*maxDriveDB/20)
}

// Cutoff is the tone filter cutoff in Hz for the current tone setting
func (o *Overdrive) Cutoff() float64 {
	return toneLowHz * math.Pow(toneHighHz/toneLowHz, o.tone/100)
}

func (o *Overdrive) Process(ctx context.Context, buf *audio.FloatBuffer) (*audio.FloatBuffer, error) {
	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("overdrive: buffer has no format")
	}
	channels := buf.Format.NumChannels
	rate := buf.Format.SampleRate
	if channels <= 0 || rate <= 0 {
		return nil, fmt.Errorf("overdrive: bad format %d ch @ %d Hz", channels, rate)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gain := o.Gain()
	alpha := 1 - math.Exp(-2*math.Pi*o.Cutoff()/float64(rate))

	o.lp = make([]float64, channels)
	out := make([]float64, len(buf.Data))
	for i, x := range buf.Data {
		ch := i % channels
		y := math.Tanh(gain*x) * outputLevel
		o.lp[ch] += alpha * (y - o.lp[ch])
		out[i] = o.lp[ch]
	}

	return &audio.FloatBuffer{Format: copyFormat(buf.Format), Data: out}, nil
}

func (o *Overdrive) Close() error { return nil }
