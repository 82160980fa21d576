package riff

import (
	"guitar-synth/debug"
	"guitar-synth/midi"
)

const defaultTempo = 120

// Request describes one riff to generate. Scale and Root are optional
// overrides; when unset they are drawn from the style profile.
type Request struct {
	Style Style
	Tempo float64
	Bars  int
	Scale *Scale
	Root  int
}

// Riff is a generated track plus the choices that produced it
type Riff struct {
	Style Style
	Tempo float64
	Bars  int
	Scale Scale // empty for Chord
	Root  int   // zero for Chord
	Track *midi.Track
}

// Generate produces a complete track for the given style
func Generate(style Style, tempo float64, bars int, r Rand) *midi.Track {
	return Compose(Request{Style: style, Tempo: tempo, Bars: bars}, r).Track
}

// Compose generates a riff. It never fails: bars <= 0 yields a track holding
// only the tempo and program events.
func Compose(req Request, r Rand) Riff {
	if req.Tempo <= 0 {
		req.Tempo = defaultTempo
	}

	tr := midi.NewTrack(req.Tempo)
	tr.Add(midi.TempoEvent(req.Tempo), midi.ProgramEvent(Program))

	out := Riff{Style: req.Style, Tempo: req.Tempo, Bars: req.Bars, Track: tr}

	if req.Style == Chord {
		progression(tr, req.Bars, r)
		debug.Log("riff", "chord progression bars=%d events=%d", req.Bars, len(tr.Events))
		return out
	}

	p := req.Style.Profile()
	if req.Scale != nil {
		out.Scale = req.Scale.clone()
	} else {
		out.Scale = mustScale(choice(r, p.Scales))
	}
	out.Root = req.Root
	if out.Root == 0 {
		out.Root = choice(r, p.Roots)
	}
	if len(out.Scale.Intervals) == 0 {
		debug.Log("riff", "%s scale %q has no intervals, header only", req.Style, out.Scale.Name)
		return out
	}

	w := &melody{
		track: tr,
		p:     p,
		r:     r,
		scale: out.Scale.Intervals,
		root:  out.Root,
		tpb:   tr.TicksPerBeat,
	}
	total := req.Bars * 4 * tr.TicksPerBeat

	switch req.Style {
	case Plain:
		w.plain(total)
	case Band:
		w.band(total)
	}

	debug.Log("riff", "%s scale=%s root=%d bars=%d events=%d", req.Style, out.Scale.Name, out.Root, req.Bars, len(tr.Events))
	return out
}

// melody walks a scale note by note, decorating with guitar articulations
type melody struct {
	track *midi.Track
	p     Profile
	r     Rand
	scale []int
	root  int
	tpb   int
}

func (m *melody) plain(total int) {
	r := m.r
	last := 0
	for time := 0; time < total; {
		pitch := clampRange(m.root + choice(r, m.scale))
		velocity := between(r, m.p.VelocityMin, m.p.VelocityMax)
		duration := ticks(choice(r, m.p.Durations), m.tpb)
		overlap := m.overlap()
		pickDelay := choice(r, []int{0, 3, 7, -4})

		// hammer-on / pull-off
		if last > 0 && chance(r, m.p.HammerOnProb) {
			pitch = clampRange(last + choice(r, hammerOffsets))
		}

		// slide into the note
		if chance(r, m.p.DecorationProb) {
			m.track.Add(
				midi.BendEvent(30, choice(r, []int{-1600, 1600})),
				midi.BendEvent(30, 0),
			)
		}

		m.noteOn(pickDelay, pitch, velocity)

		if duration > ticks(m.p.VibratoOver, m.tpb) {
			m.vibrato(duration, between(r, m.p.VibratoMin, m.p.VibratoMax))
		}

		m.noteOff(duration-overlap, pitch, velocity)

		last = pitch
		time += duration
	}
}

func (m *melody) band(total int) {
	r := m.r
	last := 0
	for time := 0; time < total; {
		pitch := clampKey(m.root + choice(r, m.scale))
		velocity := between(r, m.p.VelocityMin, m.p.VelocityMax)
		duration := ticks(choice(r, m.p.Durations), m.tpb)

		if last > 0 && chance(r, m.p.HammerOnProb) {
			pitch = clampKey(last + choice(r, hammerOffsets))
		}

		// octave slide: sound the note, bend hard, release, land an octave up
		if chance(r, m.p.DecorationProb) {
			m.noteOn(0, pitch, velocity)
			m.track.Add(midi.BendEvent(60, 3000))
			m.noteOff(10, pitch, velocity)
			pitch = clampKey(pitch + 12)
		}

		m.noteOn(between(r, -5, 10), pitch, velocity)

		if duration > ticks(m.p.VibratoOver, m.tpb) && chance(r, m.p.VibratoProb) {
			m.vibrato(duration, between(r, m.p.VibratoMin, m.p.VibratoMax))
		}

		m.noteOff(duration-m.overlap(), pitch, velocity)

		last = pitch
		time += duration
	}
}

// overlap draws the legato overlap; a fixed range consumes no randomness
func (m *melody) overlap() int {
	lo, hi := m.p.Overlap[0], m.p.Overlap[1]
	if hi <= lo {
		return lo
	}
	return between(m.r, lo, hi)
}

func (m *melody) noteOn(delta, pitch, velocity int) {
	m.track.Add(midi.NoteOnEvent(midi.Delta(delta), uint8(pitch), uint8(velocity)))
}

func (m *melody) noteOff(delta, pitch, velocity int) {
	m.track.Add(midi.NoteOffEvent(midi.Delta(delta), uint8(pitch), uint8(velocity)))
}

func (m *melody) vibrato(duration, depth int) {
	vibrato(m.track, duration, depth)
}

// vibrato spreads an up/down/center wobble over duration
func vibrato(tr *midi.Track, duration, depth int) {
	step := midi.Delta(duration / 3)
	tr.Add(
		midi.BendEvent(step, depth),
		midi.BendEvent(step, -depth),
		midi.BendEvent(step, 0),
	)
}

// clampRange keeps a pitch on the guitar neck
func clampRange(pitch int) int {
	return max(midi.MinPitch, min(midi.MaxPitch, pitch))
}

// clampKey keeps a pitch encodable as a MIDI key
func clampKey(pitch int) int {
	return max(0, min(127, pitch))
}
