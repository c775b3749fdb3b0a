package quality

import (
	"github.com/jsphweid/voicedex/model"
	"github.com/jsphweid/voicedex/util"
)

// SpacingHistogram counts the distance in semitones from the upper to the
// lower voice at each shared quarter-beat sample. Negative keys are
// crossings.
type SpacingHistogram struct {
	Upper     int         `json:"upper"`
	Lower     int         `json:"lower"`
	Histogram map[int]int `json:"histogram"`
	Samples   int         `json:"samples"`
	Mean      float64     `json:"mean"`
	Max       int         `json:"max"`
	Unisons   int         `json:"unisons"`
	Crossed   int         `json:"crossed"`
}

func Spacing(res model.SeparationResult) []SpacingHistogram {
	g := quarterBeatGrid(res)
	numVoices := len(res.Voices)

	out := []SpacingHistogram{}
	for a := 0; a < numVoices; a++ {
		for b := a + 1; b < numVoices; b++ {
			h := SpacingHistogram{Upper: a, Lower: b, Histogram: map[int]int{}}
			var total int
			for _, seg := range g.segments {
				pa, pb := seg.pitches[a], seg.pitches[b]
				if pa == silent || pb == silent {
					continue
				}
				d := pa - pb
				w := seg.samples()
				h.Histogram[d] += w
				if h.Samples == 0 || d > h.Max {
					h.Max = d
				}
				h.Samples += w
				total += d * w
				switch {
				case d == 0:
					h.Unisons += w
				case d < 0:
					h.Crossed += w
				}
			}
			h.Mean = util.SafeDiv(total, h.Samples)
			out = append(out, h)
		}
	}
	return out
}
