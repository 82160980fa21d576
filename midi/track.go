package midi

import "fmt"

// DefaultTicksPerBeat matches the resolution most sequencers write
const DefaultTicksPerBeat = 480

// Track is a single-track sequence of events with its timing resolution
type Track struct {
	TicksPerBeat int
	TempoBPM     float64
	Events       []Event
}

// NewTrack creates an empty track
func NewTrack(tempoBPM float64) *Track {
	return &Track{
		TicksPerBeat: DefaultTicksPerBeat,
		TempoBPM:     tempoBPM,
	}
}

// Add appends events in order
func (t *Track) Add(events ...Event) {
	t.Events = append(t.Events, events...)
}

// Notes returns only the note on/off events
func (t *Track) Notes() []Event {
	var notes []Event
	for _, e := range t.Events {
		if e.Kind == NoteOn || e.Kind == NoteOff {
			notes = append(notes, e)
		}
	}
	return notes
}

// Length returns the sum of all deltas in ticks
func (t *Track) Length() int64 {
	var total int64
	for _, e := range t.Events {
		total += int64(e.Delta)
	}
	return total
}

// Validate checks that every note-on is closed by a later note-off for the same
// pitch and that values are inside their MIDI ranges.
func (t *Track) Validate() error {
	open := make(map[uint8]int) // pitch -> count of unterminated note-ons
	for i, e := range t.Events {
		switch e.Kind {
		case NoteOn:
			if e.Pitch > 127 || e.Velocity == 0 || e.Velocity > 127 {
				return fmt.Errorf("event %d: note_on out of range (pitch %d, velocity %d)", i, e.Pitch, e.Velocity)
			}
			open[e.Pitch]++
		case NoteOff:
			if e.Pitch > 127 || e.Velocity > 127 {
				return fmt.Errorf("event %d: note_off out of range (pitch %d, velocity %d)", i, e.Pitch, e.Velocity)
			}
			if open[e.Pitch] > 0 {
				open[e.Pitch]--
			}
		case PitchBend:
			if e.Bend < MinBend || int(e.Bend) > MaxBend {
				return fmt.Errorf("event %d: bend %d out of range", i, e.Bend)
			}
		}
	}
	for pitch, n := range open {
		if n > 0 {
			return fmt.Errorf("pitch %d has %d note_on without note_off", pitch, n)
		}
	}
	return nil
}
