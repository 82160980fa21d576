package riff

import "guitar-synth/midi"

// Triads: C, G, Am, F, Dm, Em, Bdim
var chords = [][3]int{
	{60, 64, 67},
	{67, 71, 74},
	{57, 60, 64},
	{65, 69, 72},
	{62, 65, 69},
	{64, 67, 71},
	{59, 62, 65},
}

const (
	strumDelay    = 25 // ticks between strings
	strumVelocity = 90
	strumFalloff  = 8 // velocity lost per string
	chordVibrato  = 400
	chordOffDelay = 3
	chordOffVelo  = 64
	beatsPerChord = 4
)

// progression writes bars whole-note chords, each strummed downward
func progression(tr *midi.Track, bars int, r Rand) {
	dur := beatsPerChord * tr.TicksPerBeat

	for range max(bars, 0) {
		chord := choice(r, chords)

		for i, pitch := range chord {
			tr.Add(midi.NoteOnEvent(uint32(i*strumDelay), uint8(pitch), uint8(strumVelocity-i*strumFalloff)))
		}

		vibrato(tr, dur, chordVibrato)

		for _, pitch := range chord {
			tr.Add(midi.NoteOffEvent(chordOffDelay, uint8(pitch), chordOffVelo))
		}
	}
}
