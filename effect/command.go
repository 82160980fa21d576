package effect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-audio/audio"

	"guitar-synth/debug"
	"guitar-synth/errs"
	"guitar-synth/runner"
	"guitar-synth/wavio"
	"guitar-synth/workspace"
)

// exchangeDepth is the bit depth used for files handed to the external effect
const exchangeDepth = 24

// Command runs an external effect executable once per Process call:
//
//	<path> --drive D --tone T <in.wav> <out.wav>
//
// Buffers travel through a private temporary workspace.
type Command struct {
	Path string

	runner      *runner.Runner
	ws          *workspace.Workspace
	drive, tone float64
}

// NewCommand checks the executable and prepares its workspace
func NewCommand(path string, timeout time.Duration) (*Command, error) {
	if path == "" {
		return nil, errs.Config("effect.pluginPath", "must not be empty")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, errs.Missing("effect plugin %s: %v", path, err)
	}
	if info.IsDir() || info.Mode()&0111 == 0 {
		return nil, errs.Missing("effect plugin %s is not executable", path)
	}

	ws, err := workspace.Create()
	if err != nil {
		return nil, err
	}
	debug.Log("effect", "%s: workspace %s at %s", filepath.Base(path), ws.ID, ws.Dir)

	return &Command{
		Path:   path,
		runner: runner.New(timeout),
		ws:     ws,
	}, nil
}

func (c *Command) Name() string { return filepath.Base(c.Path) }

func (c *Command) SetControls(drive, tone float64) error {
	if err := checkControls(drive, tone); err != nil {
		return err
	}
	c.drive, c.tone = drive, tone
	return nil
}

func (c *Command) Process(ctx context.Context, buf *audio.FloatBuffer) (*audio.FloatBuffer, error) {
	if err := c.ws.Reset(); err != nil {
		return nil, err
	}
	if err := wavio.Write(c.ws.Input(), buf, exchangeDepth); err != nil {
		return nil, fmt.Errorf("stage effect input: %w", err)
	}

	if _, err := c.runner.Run(ctx, "effect", c.Path, c.Args()...); err != nil {
		return nil, err
	}

	clip, err := wavio.Read(c.ws.Output())
	if err != nil {
		return nil, fmt.Errorf("read effect output: %w", err)
	}
	return clip.Buffer, nil
}

// Args returns the command line arguments for the current controls
func (c *Command) Args() []string {
	return []string{
		"--drive", strconv.FormatFloat(c.drive, 'f', -1, 64),
		"--tone", strconv.FormatFloat(c.tone, 'f', -1, 64),
		c.ws.Input(),
		c.ws.Output(),
	}
}

func (c *Command) Close() error {
	debug.Log("effect", "%s: workspace %s closed after %s", c.Name(), c.ws.ID, time.Since(c.ws.CreatedAt).Round(time.Millisecond))
	return c.ws.Cleanup()
}
