package quality

import (
	"math"

	"github.com/jsphweid/voicedex/model"
	"github.com/jsphweid/voicedex/util"
)

type PairIndependence struct {
	Upper int `json:"upper"`
	Lower int `json:"lower"`

	// 1 - Jaccard similarity of the two onset sets
	Rhythmic float64 `json:"rhythmic"`
	// share of beat steps with both voices moving where they move apart
	Contour float64 `json:"contour"`
	// Pearson correlation of per-beat onset counts
	ActivityCorrelation float64 `json:"activity_correlation"`
	Score               float64 `json:"score"`
}

func Independence(res model.SeparationResult) []PairIndependence {
	voices := sortedVoices(res)
	tpb := ticksPerBeat(res)
	beats := newGrid(voices, tpb)
	first, last, _ := span(voices)

	numBeats := (last - first + tpb - 1) / tpb
	activity := make([]map[int]float64, len(voices))
	for v, notes := range voices {
		activity[v] = onsetsPerBeat(notes, first, tpb)
	}

	out := []PairIndependence{}
	for a := range voices {
		for b := a + 1; b < len(voices); b++ {
			p := PairIndependence{
				Upper:               a,
				Lower:               b,
				Rhythmic:            1 - onsetJaccard(voices[a], voices[b]),
				Contour:             contourIndependence(beats, a, b),
				ActivityCorrelation: pearson(activity[a], activity[b], numBeats),
			}
			p.Score = (p.Rhythmic + p.Contour + 1 - math.Abs(p.ActivityCorrelation)) / 3
			out = append(out, p)
		}
	}
	return out
}

func onsetJaccard(a, b []model.Note) float64 {
	onsets := make(map[int]int)
	for _, n := range a {
		onsets[n.StartTick] |= 1
	}
	for _, n := range b {
		onsets[n.StartTick] |= 2
	}
	var both int
	for _, mask := range onsets {
		if mask == 3 {
			both++
		}
	}
	return util.SafeDiv(both, len(onsets))
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// contourIndependence compares consecutive beat samples. Pitches only
// change at segment edges so only those steps can move.
func contourIndependence(g grid, a, b int) float64 {
	var moving, contrary int
	for k := 1; k < len(g.segments); k++ {
		prev, cur := g.segments[k-1].pitches, g.segments[k].pitches
		if prev[a] == silent || cur[a] == silent || prev[b] == silent || cur[b] == silent {
			continue
		}
		da, db := sign(cur[a]-prev[a]), sign(cur[b]-prev[b])
		if da == 0 || db == 0 {
			continue
		}
		moving++
		if da != db {
			contrary++
		}
	}
	return util.SafeDiv(contrary, moving)
}

// onsetsPerBeat counts onsets per beat index; beats without onsets are
// absent.
func onsetsPerBeat(notes []model.Note, first, tpb int) map[int]float64 {
	counts := make(map[int]float64)
	for _, n := range notes {
		counts[(n.StartTick-first)/tpb]++
	}
	return counts
}

// pearson correlates two series of length n given only their non-zero
// entries.
func pearson(x, y map[int]float64, n int) float64 {
	if n == 0 {
		return 0
	}
	var sumX, sumY, sumXX, sumYY, sumXY float64
	for i, v := range x {
		sumX += v
		sumXX += v * v
		sumXY += v * y[i]
	}
	for _, v := range y {
		sumY += v
		sumYY += v * v
	}
	size := float64(n)
	mx, my := sumX/size, sumY/size
	cov := sumXY - size*mx*my
	vx := sumXX - size*mx*mx
	vy := sumYY - size*my*my
	if vx <= 1e-12 || vy <= 1e-12 {
		return 0
	}
	return cov / math.Sqrt(vx*vy)
}
