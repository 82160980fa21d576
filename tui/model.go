package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"guitar-synth/theme"
	"guitar-synth/widgets"
)

const barWidth = 40

type FileStartMsg struct {
	Name   string
	Index  int
	Files  int
	Points int
}

type PointMsg struct {
	Name  string
	Drive float64
	Tone  float64
	Err   error
}

type FileDoneMsg struct {
	Name    string
	Written int
}

type DoneMsg struct{}

// row holds the processed points of one drive value
type row struct {
	drive  float64
	failed []bool
}

type Model struct {
	Theme *theme.Theme

	file   string
	index  int
	files  int
	points int
	rows   []row
	done   int
	failed int
	start  time.Time

	written  int // totals over finished files
	failures int
	lastErr  string

	finished bool
	quitting bool
	onQuit   func()
}

func NewModel(th *theme.Theme, onQuit func()) Model {
	return Model{Theme: th, onQuit: onQuit}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			if m.onQuit != nil {
				m.onQuit()
			}
			return m, tea.Quit
		}

	case FileStartMsg:
		m.file = msg.Name
		m.index = msg.Index
		m.files = msg.Files
		m.points = msg.Points
		m.rows = nil
		m.done = 0
		m.failed = 0
		m.start = time.Now()

	case PointMsg:
		if n := len(m.rows); n == 0 || m.rows[n-1].drive != msg.Drive {
			m.rows = append(m.rows, row{drive: msg.Drive})
		}
		last := &m.rows[len(m.rows)-1]
		last.failed = append(last.failed, msg.Err != nil)
		m.done++
		if msg.Err != nil {
			m.failed++
			m.lastErr = fmt.Sprintf("%s drive=%.0f tone=%.0f: %v", msg.Name, msg.Drive, msg.Tone, msg.Err)
		}

	case FileDoneMsg:
		m.written += msg.Written
		m.failures += m.failed

	case DoneMsg:
		m.finished = true
		return m, tea.Quit
	}

	return m, nil
}

// Progress returns points processed and points expected for the current file
func (m Model) Progress() (done, total int) {
	return m.done, m.points
}

// Totals returns outputs written and points failed over finished files
func (m Model) Totals() (written, failed int) {
	return m.written, m.failures
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	if m.finished {
		return headerStyle.Render(fmt.Sprintf("guitar-synth  sweep done  %d written  %d failed", m.written, m.failures)) + "\n"
	}
	if m.file == "" {
		return dimStyle.Render("guitar-synth  sweep starting...") + "\n"
	}

	header := headerStyle.Render(fmt.Sprintf("guitar-synth  sweep  [%d/%d] %s", m.index+1, m.files, m.file))

	bar := widgets.Bar{
		Width:      barWidth,
		Full:       m.Theme.Symbols.BarFull,
		Empty:      m.Theme.Symbols.BarEmpty,
		Gradient:   func(norm float64) [3]uint8 { return m.Theme.Palette.Lookup(norm) },
		EmptyColor: m.Theme.Palette.Lookup(theme.RoleMuted),
	}
	elapsed := time.Since(m.start).Seconds()
	status := dimStyle.Render(fmt.Sprintf(" %d/%d  %.1fs", m.done, m.points, elapsed))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(bar.Render(m.done, m.points))
	out.WriteString(status)
	out.WriteString("\n\n")
	out.WriteString(m.gridView())

	if m.lastErr != "" {
		out.WriteString("\n\n")
		out.WriteString(warnStyle.Render(m.lastErr))
	}

	out.WriteString("\n\n")
	out.WriteString(dimStyle.Render(widgets.RenderKeyHelp([]widgets.KeyBinding{{Key: "q", Desc: "stop"}})))
	return out.String()
}

// gridView draws one row per drive value, one cell per tone value
func (m Model) gridView() string {
	sym := m.Theme.Symbols
	done := m.Theme.Palette.Lookup(theme.RoleSuccess)
	failed := m.Theme.Palette.Lookup(theme.RoleWarning)

	labels := make([]string, len(m.rows))
	cells := make([][]widgets.Cell, len(m.rows))
	for i, r := range m.rows {
		labels[i] = fmt.Sprintf("drive %.0f", r.drive)
		for _, f := range r.failed {
			c := widgets.Cell{Color: done, Symbol: sym.PointDone}
			if f {
				c = widgets.Cell{Color: failed, Symbol: sym.PointFailed}
			}
			cells[i] = append(cells[i], c)
		}
	}
	return widgets.RenderGrid(labels, cells)
}
