package sweep

import "fmt"

// Point is one setting of the effect controls
type Point struct {
	Drive float64
	Tone  float64
}

func (p Point) String() string {
	return fmt.Sprintf("drive=%.0f tone=%.0f", p.Drive, p.Tone)
}

// Grid is the cross product of the drive and tone values
type Grid struct {
	Drive []float64
	Tone  []float64
}

// Len is the number of points in the grid
func (g Grid) Len() int {
	return len(g.Drive) * len(g.Tone)
}

// Points lists the grid with drive as the outer loop and tone as the inner
func (g Grid) Points() []Point {
	points := make([]Point, 0, g.Len())
	for _, d := range g.Drive {
		for _, t := range g.Tone {
			points = append(points, Point{Drive: d, Tone: t})
		}
	}
	return points
}

// OutputName is the file name for stem processed at p, e.g.
// clean_riff_000_drive50_tone100.wav
func OutputName(stem string, p Point) string {
	return fmt.Sprintf("%s_drive%.0f_tone%.0f.wav", stem, p.Drive, p.Tone)
}
