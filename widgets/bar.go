package widgets

import "strings"

// Bar is a horizontal progress bar
type Bar struct {
	Width int
	Full  rune
	Empty rune
	// Gradient colors filled cell i by its position i/(Width-1)
	Gradient   func(norm float64) [3]uint8
	EmptyColor [3]uint8
}

// Filled is the number of filled cells for done of total
func (b Bar) Filled(done, total int) int {
	if total <= 0 || b.Width <= 0 {
		return 0
	}
	done = min(max(done, 0), total)
	return done * b.Width / total
}

// Render draws the bar for done of total
func (b Bar) Render(done, total int) string {
	filled := b.Filled(done, total)

	var out strings.Builder
	for i := 0; i < b.Width; i++ {
		if i >= filled {
			out.WriteString(RenderCell(Cell{Color: b.EmptyColor, Symbol: b.Empty}))
			continue
		}
		var color [3]uint8
		if b.Gradient != nil {
			norm := 0.0
			if b.Width > 1 {
				norm = float64(i) / float64(b.Width-1)
			}
			color = b.Gradient(norm)
		}
		out.WriteString(RenderCell(Cell{Color: color, Symbol: b.Full}))
	}
	return out.String()
}
