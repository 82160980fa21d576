package main

import (
	"fmt"
	"os"

	"gitlab.com/gomidi/midi/v2/smf"

	"guitar-synth/midi"
)

func main() {
	if len(os.Args) < 3 {
		usage()
		return
	}

	files := os.Args[2:]
	var err error
	switch os.Args[1] {
	case "events":
		err = each(files, printEvents)
	case "summary":
		err = each(files, printSummary)
	case "check":
		err = each(files, check)
	case "raw":
		err = each(files, printRaw)
	default:
		usage()
		return
	}
	if err != nil {
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("MIDI inspection")
	fmt.Println("")
	fmt.Println("Usage: midiinspect <command> <file.mid>...  (- reads stdin)")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  events   - List events with absolute ticks")
	fmt.Println("  summary  - Tempo, length, note range and counts")
	fmt.Println("  check    - Verify every note is closed and values are in range")
	fmt.Println("  raw      - Dump the SMF messages as stored")
}

// each runs fn for every file, reporting errors and carrying on
func each(files []string, fn func(string) error) error {
	var failed error
	for _, f := range files {
		if err := fn(f); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", f, err)
			failed = err
		}
	}
	return failed
}

// load reads a track from path, or from stdin when path is "-"
func load(path string) (*midi.Track, error) {
	if path == "-" {
		return midi.Read(os.Stdin)
	}
	return midi.ReadFile(path)
}

func printEvents(path string) error {
	tr, err := load(path)
	if err != nil {
		return err
	}

	fmt.Printf("=== %s (%d ticks/beat, %.1f bpm) ===\n", path, tr.TicksPerBeat, tr.TempoBPM)
	var tick int64
	for _, e := range tr.Events {
		tick += int64(e.Delta)
		beat := float64(tick) / float64(tr.TicksPerBeat)
		fmt.Printf("%7d %7.3f  %s\n", tick, beat, e)
	}
	return nil
}

func printSummary(path string) error {
	tr, err := load(path)
	if err != nil {
		return err
	}

	notes, bends := 0, 0
	lo, hi := 127, 0
	for _, e := range tr.Events {
		switch e.Kind {
		case midi.NoteOn:
			notes++
			lo = min(lo, int(e.Pitch))
			hi = max(hi, int(e.Pitch))
		case midi.PitchBend:
			bends++
		}
	}

	beats := float64(tr.Length()) / float64(tr.TicksPerBeat)
	fmt.Printf("%s\n", path)
	fmt.Printf("  tempo   %.1f bpm\n", tr.TempoBPM)
	fmt.Printf("  length  %.2f beats (%.2f bars)\n", beats, beats/4)
	fmt.Printf("  events  %d\n", len(tr.Events))
	fmt.Printf("  notes   %d\n", notes)
	if notes > 0 {
		fmt.Printf("  range   %d-%d\n", lo, hi)
	}
	fmt.Printf("  bends   %d\n", bends)
	return nil
}

func check(path string) error {
	tr, err := load(path)
	if err != nil {
		return err
	}
	if err := tr.Validate(); err != nil {
		return err
	}
	fmt.Printf("%s: ok (%d events)\n", path, len(tr.Events))
	return nil
}

func printRaw(path string) error {
	s, err := smf.ReadFile(path)
	if err != nil {
		return err
	}

	fmt.Printf("=== %s (%d tracks, %v) ===\n", path, len(s.Tracks), s.TimeFormat)
	for i, tr := range s.Tracks {
		fmt.Printf("track %d\n", i)
		for _, ev := range tr {
			fmt.Printf("  +%-5d %s\n", ev.Delta, ev.Message)
		}
	}
	return nil
}
