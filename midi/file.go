package midi

import (
	"bytes"
	"fmt"
	"io"
	"os"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Encode converts a track into a single-track standard MIDI file
func Encode(t *Track) (*smf.SMF, error) {
	if t.TicksPerBeat <= 0 || t.TicksPerBeat > 0x7FFF {
		return nil, fmt.Errorf("ticks per beat %d out of range", t.TicksPerBeat)
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(t.TicksPerBeat)

	var tr smf.Track
	for i, e := range t.Events {
		switch e.Kind {
		case Tempo:
			tr.Add(e.Delta, smf.MetaTempo(e.BPM))
		case ProgramChange:
			tr.Add(e.Delta, gomidi.ProgramChange(e.Channel, e.Program))
		case NoteOn:
			tr.Add(e.Delta, gomidi.NoteOn(e.Channel, e.Pitch, e.Velocity))
		case NoteOff:
			tr.Add(e.Delta, gomidi.NoteOffVelocity(e.Channel, e.Pitch, e.Velocity))
		case PitchBend:
			tr.Add(e.Delta, gomidi.Pitchbend(e.Channel, e.Bend))
		default:
			return nil, fmt.Errorf("event %d: cannot encode %s", i, e.Kind)
		}
	}
	tr.Close(0)

	if err := s.Add(tr); err != nil {
		return nil, fmt.Errorf("add track: %w", err)
	}
	return s, nil
}

// Write serializes a track to w
func Write(w io.Writer, t *Track) error {
	s, err := Encode(t)
	if err != nil {
		return err
	}
	_, err = s.WriteTo(w)
	return err
}

// WriteFile validates and writes a track to path
func WriteFile(path string, t *Track) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid track for %s: %w", path, err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, t); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// ReadFile loads the first track of a MIDI file back into events.
// Meta events other than tempo are dropped; their deltas carry over.
func ReadFile(path string) (*Track, error) {
	s, err := smf.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return decode(s)
}

// Read loads a MIDI file from r
func Read(r io.Reader) (*Track, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	return decode(s)
}

func decode(s *smf.SMF) (*Track, error) {
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("unsupported time format %v", s.TimeFormat)
	}
	if len(s.Tracks) == 0 {
		return nil, fmt.Errorf("no tracks")
	}

	t := &Track{TicksPerBeat: int(ticks.Resolution())}

	var pending uint32
	for _, ev := range s.Tracks[0] {
		pending += ev.Delta

		var (
			bpm              float64
			ch, key, vel, pg uint8
			rel              int16
			abs              uint16
		)
		msg := gomidi.Message(ev.Message)

		var e Event
		switch {
		case ev.Message.GetMetaTempo(&bpm):
			e = TempoEvent(bpm)
			if t.TempoBPM == 0 {
				t.TempoBPM = bpm
			}
		case msg.GetProgramChange(&ch, &pg):
			e = ProgramEvent(pg)
		case msg.GetNoteOn(&ch, &key, &vel):
			e = NoteOnEvent(0, key, vel)
		case msg.GetNoteOff(&ch, &key, &vel):
			e = NoteOffEvent(0, key, vel)
		case msg.GetPitchBend(&ch, &rel, &abs):
			e = Event{Kind: PitchBend, Bend: rel}
		default:
			continue
		}

		e.Channel = ch
		e.Delta = pending
		pending = 0
		t.Events = append(t.Events, e)
	}

	return t, nil
}
