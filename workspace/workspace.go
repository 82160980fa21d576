package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Workspace holds temporary files for one effect run
type Workspace struct {
	ID        string
	Dir       string
	CreatedAt time.Time
}

// Create creates a new isolated workspace in the system temp directory
func Create() (*Workspace, error) {
	dir, err := os.MkdirTemp("", "guitar-synth-*")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	return &Workspace{
		ID:        uuid.NewString(),
		Dir:       dir,
		CreatedAt: time.Now(),
	}, nil
}

// Path helpers for workspace files
func (w *Workspace) Input() string  { return filepath.Join(w.Dir, "input.wav") }
func (w *Workspace) Output() string { return filepath.Join(w.Dir, "output.wav") }

// Reset removes per-call files so a stale output is never read back
func (w *Workspace) Reset() error {
	for _, p := range []string{w.Input(), w.Output()} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Cleanup removes the workspace directory and all contents
func (w *Workspace) Cleanup() error {
	return os.RemoveAll(w.Dir)
}
