package tui

import (
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"guitar-synth/theme"
)

// Reporter feeds sweep progress into a running bubbletea program
type Reporter struct {
	program *tea.Program
	done    chan struct{}
	once    sync.Once
}

// Start runs the progress view on out in the background. onQuit is called
// when the user stops the sweep from the keyboard.
func Start(th *theme.Theme, out io.Writer, onQuit func()) *Reporter {
	r := &Reporter{
		program: tea.NewProgram(NewModel(th, onQuit), tea.WithOutput(out)),
		done:    make(chan struct{}),
	}
	go func() {
		defer close(r.done)
		r.program.Run()
	}()
	return r
}

func (r *Reporter) StartFile(name string, index, files, points int) {
	r.program.Send(FileStartMsg{Name: name, Index: index, Files: files, Points: points})
}

func (r *Reporter) Point(name string, drive, tone float64, err error) {
	r.program.Send(PointMsg{Name: name, Drive: drive, Tone: tone, Err: err})
}

func (r *Reporter) FinishFile(name string, written int) {
	r.program.Send(FileDoneMsg{Name: name, Written: written})
}

// Close ends the view and waits for the terminal to be restored
func (r *Reporter) Close() {
	r.once.Do(func() {
		r.program.Send(DoneMsg{})
		<-r.done
	})
}
