package midi

import "fmt"

// Kind identifies what an Event does. Channel messages use their status nibble.
type Kind uint8

const (
	NoteOff       Kind = 0x80
	NoteOn        Kind = 0x90
	ProgramChange Kind = 0xC0
	PitchBend     Kind = 0xE0
	Tempo         Kind = 0xFF // meta event
)

// Playable guitar range (E2-E6)
const (
	MinPitch = 40
	MaxPitch = 88
)

// Pitch bend limits (14-bit signed)
const (
	MinBend = -8192
	MaxBend = 8191
)

// Event is a single scheduled event in a track.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind     Kind
	Delta    uint32 // ticks since previous event in the track
	Channel  uint8
	Pitch    uint8   // NoteOn, NoteOff
	Velocity uint8   // NoteOn, NoteOff
	Bend     int16   // PitchBend
	Program  uint8   // ProgramChange
	BPM      float64 // Tempo
}

func (k Kind) String() string {
	switch k {
	case NoteOff:
		return "note_off"
	case NoteOn:
		return "note_on"
	case ProgramChange:
		return "program_change"
	case PitchBend:
		return "pitch_bend"
	case Tempo:
		return "tempo"
	}
	return fmt.Sprintf("kind(0x%02x)", uint8(k))
}

func (e Event) String() string {
	switch e.Kind {
	case NoteOn, NoteOff:
		return fmt.Sprintf("+%-5d %-14s pitch=%d vel=%d", e.Delta, e.Kind, e.Pitch, e.Velocity)
	case PitchBend:
		return fmt.Sprintf("+%-5d %-14s bend=%d", e.Delta, e.Kind, e.Bend)
	case ProgramChange:
		return fmt.Sprintf("+%-5d %-14s program=%d", e.Delta, e.Kind, e.Program)
	case Tempo:
		return fmt.Sprintf("+%-5d %-14s bpm=%.2f", e.Delta, e.Kind, e.BPM)
	}
	return fmt.Sprintf("+%-5d %s", e.Delta, e.Kind)
}

// Constructors keep the generator readable

func NoteOnEvent(delta uint32, pitch, velocity uint8) Event {
	return Event{Kind: NoteOn, Delta: delta, Pitch: pitch, Velocity: velocity}
}

func NoteOffEvent(delta uint32, pitch, velocity uint8) Event {
	return Event{Kind: NoteOff, Delta: delta, Pitch: pitch, Velocity: velocity}
}

func BendEvent(delta uint32, amount int) Event {
	return Event{Kind: PitchBend, Delta: delta, Bend: int16(ClampBend(amount))}
}

func ProgramEvent(program uint8) Event {
	return Event{Kind: ProgramChange, Program: program}
}

func TempoEvent(bpm float64) Event {
	return Event{Kind: Tempo, BPM: bpm}
}

// ClampBend keeps a bend amount inside the 14-bit range
func ClampBend(v int) int {
	return max(MinBend, min(MaxBend, v))
}

// Delta converts a signed tick offset into a delta, clamping negatives to zero
func Delta(ticks int) uint32 {
	if ticks < 0 {
		return 0
	}
	return uint32(ticks)
}
