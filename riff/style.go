package riff

import (
	"fmt"
	"strings"
)

// Style selects one of the riff generators
type Style int

const (
	Plain Style = iota // single-note clean guitar riff
	Band               // jam-band style riff with octave slides
	Chord              // strummed triad progression
)

// AllStyles in generation order
var AllStyles = []Style{Plain, Band, Chord}

// Program is General MIDI "Electric Guitar (clean)", zero-based
const Program = 27

// Profile holds per-style defaults. Durations are in fractions of a beat
// expressed as (numerator, denominator) so they scale with ticks per beat.
type Profile struct {
	Name   string
	Prefix string // output file prefix

	Tempos []int
	Bars   []int

	Scales []string
	Roots  []int

	VelocityMin, VelocityMax int
	Durations                [][2]int
	Overlap                  [2]int // note-off lands this many ticks early, drawn from [min, max]

	HammerOnProb   float64
	DecorationProb float64 // bend slide (Plain) or octave slide (Band)
	VibratoProb    float64 // 1 = always when long enough
	VibratoOver    [2]int  // duration must exceed this fraction of a beat
	VibratoMin     int
	VibratoMax     int
}

var hammerOffsets = []int{-2, -1, 1, 2}

var profiles = map[Style]Profile{
	Plain: {
		Name:           "plain",
		Prefix:         "clean_riff",
		Tempos:         steps(90, 160, 10),
		Bars:           []int{1, 2, 4},
		Scales:         scaleNames(),
		Roots:          []int{47, 50, 52, 55, 57},
		VelocityMin:    80,
		VelocityMax:    120,
		Durations:      [][2]int{{1, 2}, {1, 1}, {3, 2}},
		Overlap:        [2]int{15, 45},
		HammerOnProb:   0.25,
		DecorationProb: 0.15,
		VibratoProb:    1,
		VibratoOver:    [2]int{1, 1},
		VibratoMin:     100,
		VibratoMax:     600,
	},
	Band: {
		Name:           "band",
		Prefix:         "dead_riff",
		Tempos:         steps(90, 135, 5),
		Bars:           []int{2, 4, 8},
		Scales:         []string{"D_mixolydian", "G_mixolydian", "C_mixolydian", "major_pent"},
		Roots:          []int{50, 52, 55, 57},
		VelocityMin:    70,
		VelocityMax:    105,
		Durations:      [][2]int{{1, 2}, {5, 8}},
		Overlap:        [2]int{0, 0},
		HammerOnProb:   0.30,
		DecorationProb: 0.10,
		VibratoProb:    0.40,
		VibratoOver:    [2]int{1, 2},
		VibratoMin:     200,
		VibratoMax:     900,
	},
	Chord: {
		Name:   "chord",
		Prefix: "clean_chord",
		Tempos: steps(90, 160, 10),
		Bars:   []int{1, 2, 4},
	},
}

// Profile returns the defaults for s
func (s Style) Profile() Profile {
	return profiles[s]
}

// Prefix is the file name prefix for riffs of this style
func (s Style) Prefix() string {
	return profiles[s].Prefix
}

func (s Style) String() string {
	if p, ok := profiles[s]; ok {
		return p.Name
	}
	return fmt.Sprintf("style(%d)", int(s))
}

// ParseStyle accepts a style name or its file prefix
func ParseStyle(name string) (Style, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range AllStyles {
		p := profiles[s]
		if name == p.Name || name == p.Prefix {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown riff style %q", name)
}

// ticks scales a beat fraction to ticks
func ticks(frac [2]int, ticksPerBeat int) int {
	return ticksPerBeat * frac[0] / frac[1]
}

func steps(from, to, step int) []int {
	var out []int
	for v := from; v <= to; v += step {
		out = append(out, v)
	}
	return out
}

func scaleNames() []string {
	names := make([]string, len(scales))
	for i, s := range scales {
		names[i] = s.Name
	}
	return names
}
