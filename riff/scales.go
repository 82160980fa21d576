package riff

import "fmt"

// Scale is a named set of semitone intervals from a root
type Scale struct {
	Name      string
	Intervals []int
}

// Common guitar scales. Order is fixed so seeded selection is reproducible.
var scales = []Scale{
	{"C_major", []int{0, 2, 4, 5, 7, 9, 11, 12}},
	{"A_minor", []int{0, 2, 3, 5, 7, 8, 10, 12}},
	{"E_minor_pent", []int{0, 3, 5, 7, 10, 12}},
	{"A_blues", []int{0, 3, 5, 6, 7, 10, 12}},
	{"G_major", []int{0, 2, 4, 5, 7, 9, 11, 12}},
	{"D_mixolydian", []int{0, 2, 4, 5, 7, 9, 10, 12}},
	{"G_mixolydian", []int{0, 2, 4, 5, 7, 9, 10, 12}},
	{"C_mixolydian", []int{0, 2, 4, 5, 7, 9, 10, 12}},
	{"major_pent", []int{0, 2, 4, 7, 9, 12}},
}

// Scales returns all known scales in table order
func Scales() []Scale {
	out := make([]Scale, len(scales))
	for i, s := range scales {
		out[i] = s.clone()
	}
	return out
}

// LookupScale finds a scale by name
func LookupScale(name string) (Scale, error) {
	for _, s := range scales {
		if s.Name == name {
			return s.clone(), nil
		}
	}
	return Scale{}, fmt.Errorf("unknown scale %q", name)
}

func mustScale(name string) Scale {
	s, err := LookupScale(name)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Scale) clone() Scale {
	return Scale{Name: s.Name, Intervals: append([]int(nil), s.Intervals...)}
}

func (s Scale) String() string {
	return fmt.Sprintf("%s %v", s.Name, s.Intervals)
}
