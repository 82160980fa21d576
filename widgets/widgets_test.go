package widgets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBarFilled(t *testing.T) {
	b := Bar{Width: 10}
	tests := []struct {
		done, total, want int
	}{
		{0, 4, 0},
		{1, 4, 2},
		{2, 4, 5},
		{4, 4, 10},
		{9, 4, 10},
		{-1, 4, 0},
		{3, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, b.Filled(tt.done, tt.total), "%d/%d", tt.done, tt.total)
	}
}

func TestBarRender(t *testing.T) {
	var seen []float64
	b := Bar{
		Width: 8,
		Full:  '#',
		Empty: '.',
		Gradient: func(norm float64) [3]uint8 {
			seen = append(seen, norm)
			return [3]uint8{255, 0, 0}
		},
	}
	out := b.Render(1, 2)
	assert.Equal(t, 4, strings.Count(out, "#"))
	assert.Equal(t, 4, strings.Count(out, "."))
	assert.Equal(t, []float64{0, 1.0 / 7, 2.0 / 7, 3.0 / 7}, seen)
}

func TestRenderGrid(t *testing.T) {
	cells := [][]Cell{
		{{Symbol: 'o'}, {Symbol: 'x'}},
		{{Symbol: 'o'}},
	}
	out := RenderGrid([]string{"drive 0", "drive 100"}, cells)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "drive 0   "))
	assert.Contains(t, lines[0], "x")
	assert.True(t, strings.HasPrefix(lines[1], "drive 100 "))
}

func TestRenderKeyHelp(t *testing.T) {
	out := RenderKeyHelp([]KeyBinding{{Key: "q", Desc: "stop"}, {Key: "?", Desc: "help"}})
	assert.Equal(t, "q stop  ? help", out)
}
