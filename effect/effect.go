package effect

import (
	"context"
	"fmt"
	"time"

	"github.com/go-audio/audio"

	"guitar-synth/config"
	"guitar-synth/errs"
)

// Control range shared by every unit
const (
	ControlMin = 0.0
	ControlMax = 100.0
)

// Unit is a stateful audio effect with two controls. A unit is not safe for
// concurrent use: set controls, then process, one call at a time.
type Unit interface {
	Name() string
	// SetControls sets drive and tone, both in [0,100]
	SetControls(drive, tone float64) error
	// Process runs a whole buffer through the effect and returns a new buffer.
	// The input is not modified.
	Process(ctx context.Context, buf *audio.FloatBuffer) (*audio.FloatBuffer, error)
	Close() error
}

// Open creates the unit selected by configuration
func Open(kind config.EffectKind, pluginPath string, timeout time.Duration) (Unit, error) {
	switch kind {
	case config.EffectOverdrive, "":
		return NewOverdrive(), nil
	case config.EffectCommand:
		return NewCommand(pluginPath, timeout)
	}
	return nil, errs.Config("effect.kind", "unknown kind %q", kind)
}

func checkControls(drive, tone float64) error {
	for _, c := range []struct {
		name string
		v    float64
	}{{"drive", drive}, {"tone", tone}} {
		if c.v < ControlMin || c.v > ControlMax {
			return fmt.Errorf("%w: %s=%g", errs.ErrControlRange, c.name, c.v)
		}
	}
	return nil
}

func copyFormat(f *audio.Format) *audio.Format {
	if f == nil {
		return nil
	}
	out := *f
	return &out
}
