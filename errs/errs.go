package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure classes a run can hit
var (
	// ErrMissingResource aborts a run: no sample bank, no inputs, tool not installed.
	ErrMissingResource = errors.New("missing resource")
	// ErrConfiguration aborts a run at startup.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrControlRange is returned by an effect unit for control values outside [0,100].
	ErrControlRange = errors.New("control value out of range")
)

// Missing wraps ErrMissingResource with a description of what was not found.
func Missing(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMissingResource, fmt.Sprintf(format, args...))
}

// Config wraps ErrConfiguration with the offending field.
func Config(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrConfiguration, field, fmt.Sprintf(format, args...))
}

// ProcessError represents a failure in an external process (renderer or effect)
type ProcessError struct {
	Tool     string   // "fluidsynth", effect executable name
	Stage    string   // "render", "effect"
	Args     []string // full command line, for diagnostics
	ExitCode int
	Stderr   string
	Cause    error
}

func (e *ProcessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed at %s (exit %d): %s", e.Tool, e.Stage, e.ExitCode, strings.TrimSpace(e.Stderr))
	}
	return fmt.Sprintf("%s failed at %s (exit %d)", e.Tool, e.Stage, e.ExitCode)
}

func (e *ProcessError) Unwrap() error {
	return e.Cause
}

// CommandLine returns the command as it would be typed in a shell
func (e *ProcessError) CommandLine() string {
	return strings.Join(e.Args, " ")
}

// NewProcessError creates a ProcessError
func NewProcessError(tool, stage string, args []string, exitCode int, stderr string, cause error) *ProcessError {
	return &ProcessError{
		Tool:     tool,
		Stage:    stage,
		Args:     args,
		ExitCode: exitCode,
		Stderr:   stderr,
		Cause:    cause,
	}
}

// IsFatal reports whether err should abort the whole run rather than skip one unit of work
func IsFatal(err error) bool {
	return errors.Is(err, ErrMissingResource) || errors.Is(err, ErrConfiguration)
}
