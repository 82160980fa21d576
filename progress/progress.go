package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"guitar-synth/theme"
	"guitar-synth/tui"
)

// Reporter receives sweep progress. Calls come from one goroutine.
type Reporter interface {
	// StartFile announces file index (zero-based) of files, with points to process
	StartFile(name string, index, files, points int)
	// Point reports one grid point; err is nil when the output was written
	Point(name string, drive, tone float64, err error)
	// FinishFile closes out a file with the number of outputs written
	FinishFile(name string, written int)
	// Close flushes the reporter. It is safe to call more than once.
	Close()
}

// Options selects the reporter
type Options struct {
	Out     *os.File
	Enabled bool // config UI.Progress
	Verbose bool
	Theme   *theme.Theme
	// OnQuit is called when the user quits the terminal view
	OnQuit func()
}

// New returns the terminal view when Out is a terminal and progress is
// enabled, and line output otherwise.
func New(opts Options) Reporter {
	if opts.Out == nil {
		opts.Out = os.Stderr
	}
	if opts.Enabled && isTerminal(opts.Out) {
		th := opts.Theme
		if th == nil {
			th = theme.New(theme.DefaultPalette())
		}
		return tui.Start(th, opts.Out, opts.OnQuit)
	}
	return NewLine(opts.Out, opts.Verbose)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Line writes one line per file, plus one per failed point
type Line struct {
	out       io.Writer
	verbose   bool
	fileStart time.Time
	points    int
	rendered  int
}

// NewLine creates a line reporter. Verbose adds a line per written point.
func NewLine(out io.Writer, verbose bool) *Line {
	return &Line{out: out, verbose: verbose}
}

func (l *Line) StartFile(name string, index, files, points int) {
	l.fileStart = time.Now()
	l.points = points
	fmt.Fprintf(l.out, "[%d/%d] %s (%d points)\n", index+1, files, name, points)
}

func (l *Line) Point(name string, drive, tone float64, err error) {
	if err != nil {
		fmt.Fprintf(l.out, "       failed drive=%.0f tone=%.0f: %s\n", drive, tone, err)
		return
	}
	if l.verbose {
		fmt.Fprintf(l.out, "       drive=%.0f tone=%.0f\n", drive, tone)
	}
}

func (l *Line) FinishFile(name string, written int) {
	fmt.Fprintf(l.out, "       %d/%d written in %.1fs\n", written, l.points, time.Since(l.fileStart).Seconds())
}

// Rendered reports one file of the render stage
func (l *Line) Rendered(name string, err error) {
	l.rendered++
	if err != nil {
		fmt.Fprintf(l.out, "[%d] %s failed: %s\n", l.rendered, name, err)
		return
	}
	fmt.Fprintf(l.out, "[%d] %s\n", l.rendered, name)
}

func (l *Line) Close() {}

// Nop discards progress
type Nop struct{}

func (Nop) StartFile(string, int, int, int) {}
func (Nop) Point(string, float64, float64, error) {}
func (Nop) FinishFile(string, int) {}
func (Nop) Close() {}
