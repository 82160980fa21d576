package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissing(t *testing.T) {
	err := Missing("no soundfont in %s", "/data/soundfonts")
	assert.ErrorIs(t, err, ErrMissingResource)
	assert.Equal(t, "missing resource: no soundfont in /data/soundfonts", err.Error())
	assert.True(t, IsFatal(err))
}

func TestConfig(t *testing.T) {
	err := Config("effect.driveGrid", "must not be empty")
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, "invalid configuration: effect.driveGrid: must not be empty", err.Error())
	assert.True(t, IsFatal(fmt.Errorf("startup: %w", err)))
}

func TestProcessError(t *testing.T) {
	cause := errors.New("exit status 2")
	err := NewProcessError("fluidsynth", "render", []string{"fluidsynth", "-ni", "bank.sf2", "a.mid"}, 2, "  bad file\n", cause)

	assert.Equal(t, "fluidsynth failed at render (exit 2): bad file", err.Error())
	assert.Equal(t, "fluidsynth -ni bank.sf2 a.mid", err.CommandLine())
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsFatal(err))

	var pe *ProcessError
	assert.True(t, errors.As(fmt.Errorf("a.mid: %w", err), &pe))
	assert.Equal(t, 2, pe.ExitCode)

	quiet := NewProcessError("drdrive", "effect", nil, 1, "", cause)
	assert.Equal(t, "drdrive failed at effect (exit 1)", quiet.Error())
}
