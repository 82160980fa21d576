package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Cell is one colored symbol
type Cell struct {
	Color  [3]uint8
	Symbol rune
}

// RenderCell renders a single colored cell
func RenderCell(c Cell) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(c.Color)))
	return style.Render(string(c.Symbol))
}

// RenderRow renders cells with spacing
func RenderRow(cells []Cell) string {
	var out strings.Builder
	for i, c := range cells {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(RenderCell(c))
	}
	return out.String()
}

// RenderGrid renders labeled rows, row 0 at top
func RenderGrid(labels []string, rows [][]Cell) string {
	width := 0
	for _, l := range labels {
		width = max(width, len(l))
	}

	var lines []string
	for i, row := range rows {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		lines = append(lines, fmt.Sprintf("%-*s %s", width, label, RenderRow(row)))
	}
	return strings.Join(lines, "\n")
}

// RenderKeyHelp formats key bindings on one line: "q quit  ctrl+c quit"
func RenderKeyHelp(keys []KeyBinding) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.Key + " " + k.Desc
	}
	return strings.Join(parts, "  ")
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
