package riff

import "fmt"

// Job is one riff file to produce
type Job struct {
	Style Style
	Index int
	Tempo int
	Bars  int
}

// Filename follows {prefix}_{index:03d}.mid
func (j Job) Filename() string {
	return fmt.Sprintf("%s_%03d.mid", j.Style.Prefix(), j.Index)
}

// Plan draws tempo and bar count for count riffs of each style
func Plan(styles []Style, count int, r Rand) []Job {
	var jobs []Job
	for _, s := range styles {
		p := s.Profile()
		for i := range max(count, 0) {
			jobs = append(jobs, Job{
				Style: s,
				Index: i,
				Tempo: choice(r, p.Tempos),
				Bars:  choice(r, p.Bars),
			})
		}
	}
	return jobs
}

// Compose generates the riff for this job
func (j Job) Compose(r Rand) Riff {
	return Compose(Request{Style: j.Style, Tempo: float64(j.Tempo), Bars: j.Bars}, r)
}
