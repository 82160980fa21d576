package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"

	"guitar-synth/errs"
)

// Result holds command execution output
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Runner executes external commands with a per-call deadline
type Runner struct {
	Timeout time.Duration // zero = no deadline beyond ctx
	Dir     string        // working directory, empty = current
}

// New creates a runner with the given per-call timeout
func New(timeout time.Duration) *Runner {
	return &Runner{Timeout: timeout}
}

// Run executes name with args. A non-zero exit, a timeout, or a start failure
// comes back as *errs.ProcessError tagged with stage; the Result is returned
// either way when the process ran.
func (r *Runner) Run(ctx context.Context, stage, name string, args ...string) (*Result, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Dir = r.Dir

	start := time.Now()
	err := cmd.Run()

	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	}

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("timed out after %s: %w", r.Timeout, err)
		}
		if result.ExitCode == 0 {
			result.ExitCode = -1
		}
		cmdline := append([]string{name}, args...)
		return result, errs.NewProcessError(filepath.Base(name), stage, cmdline, result.ExitCode, result.Stderr, err)
	}

	return result, nil
}

// CheckTool verifies an executable can be found
func CheckTool(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", errs.Missing("%s not installed or not on PATH", name)
	}
	return path, nil
}
