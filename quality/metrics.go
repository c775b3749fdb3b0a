package quality

import (
	"github.com/jsphweid/voicedex/constants"
	"github.com/jsphweid/voicedex/model"
	"github.com/jsphweid/voicedex/util"
)

const swapWindowBars = 4

type VoiceMetrics struct {
	Voice       int     `json:"voice"`
	NoteCount   int     `json:"note_count"`
	AvgInterval float64 `json:"avg_interval"`
	GapRate     float64 `json:"gap_rate"`
	OverlapRate float64 `json:"overlap_rate"`
	MedianPitch float64 `json:"median_pitch"`
}

type Metrics struct {
	Voices []VoiceMetrics `json:"voices"`

	// Jaccard overlap of pitch ranges for voices i and i+1
	RegisterOverlap []float64 `json:"register_overlap"`
	CrossingRate    float64   `json:"crossing_rate"`
	VoiceSwaps      int       `json:"voice_swaps"`
	UnassignedRate  float64   `json:"unassigned_rate"`
}

func Evaluate(res model.SeparationResult) Metrics {
	voices := sortedVoices(res)

	m := Metrics{
		Voices:          make([]VoiceMetrics, len(voices)),
		RegisterOverlap: []float64{},
		CrossingRate:    crossingRate(quarterBeatGrid(res)),
		VoiceSwaps:      voiceSwaps(voices, ticksPerBeat(res)),
		UnassignedRate:  util.SafeDiv(len(res.Ornaments), res.TotalCount()),
	}
	for i, v := range voices {
		m.Voices[i] = voiceMetrics(i, v)
	}
	for i := 0; i+1 < len(voices); i++ {
		m.RegisterOverlap = append(m.RegisterOverlap, rangeJaccard(voices[i], voices[i+1]))
	}
	return m
}

func voiceMetrics(index int, notes []model.Note) VoiceMetrics {
	vm := VoiceMetrics{
		Voice:       index,
		NoteCount:   len(notes),
		MedianPitch: util.Median(pitches(notes)),
	}
	var intervals, gaps, overlaps int
	for i := 1; i < len(notes); i++ {
		prev, cur := notes[i-1], notes[i]
		intervals += util.Abs(cur.Pitch - prev.Pitch)
		switch {
		case cur.StartTick > prev.EndTick():
			gaps++
		case cur.StartTick < prev.EndTick():
			overlaps++
		}
	}
	pairs := len(notes) - 1
	vm.AvgInterval = util.SafeDiv(intervals, pairs)
	vm.GapRate = util.SafeDiv(gaps, pairs)
	vm.OverlapRate = util.SafeDiv(overlaps, pairs)
	return vm
}

func pitchRange(notes []model.Note) (int, int) {
	lo, hi := notes[0].Pitch, notes[0].Pitch
	for _, n := range notes {
		lo = util.Min(lo, n.Pitch)
		hi = util.Max(hi, n.Pitch)
	}
	return lo, hi
}

// rangeJaccard treats each voice's pitch range as an inclusive set of
// semitones.
func rangeJaccard(a, b []model.Note) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	aLo, aHi := pitchRange(a)
	bLo, bHi := pitchRange(b)
	inter := util.Max(0, util.Min(aHi, bHi)-util.Max(aLo, bLo)+1)
	union := (aHi - aLo + 1) + (bHi - bLo + 1) - inter
	return util.SafeDiv(inter, union)
}

// crossingRate is the share of samples with two or more sounding voices in
// which some upper voice sits below a lower one.
func crossingRate(g grid) float64 {
	var shared, crossed int
	for _, seg := range g.segments {
		sounding := 0
		isCrossed := false
		for a, pa := range seg.pitches {
			if pa == silent {
				continue
			}
			sounding++
			for _, pb := range seg.pitches[a+1:] {
				if pb != silent && pa < pb {
					isCrossed = true
				}
			}
		}
		if sounding >= 2 {
			shared += seg.samples()
			if isCrossed {
				crossed += seg.samples()
			}
		}
	}
	return util.SafeDiv(crossed, shared)
}

// voiceSwaps counts, per 4-bar window, voice pairs whose median pitches are
// in the wrong order.
func voiceSwaps(voices [][]model.Note, tpb int) int {
	first, last, ok := span(voices)
	if !ok {
		return 0
	}
	window := swapWindowBars * constants.BeatsPerBar * tpb

	var swaps int
	for from := first; from < last; from += window {
		medians := make([]float64, len(voices))
		present := make([]bool, len(voices))
		for v, notes := range voices {
			var ps []int
			for _, n := range notes {
				if n.StartTick >= from && n.StartTick < from+window {
					ps = append(ps, n.Pitch)
				}
			}
			if len(ps) > 0 {
				medians[v] = util.Median(ps)
				present[v] = true
			}
		}
		for a := range voices {
			for b := a + 1; b < len(voices); b++ {
				if present[a] && present[b] && medians[a] < medians[b] {
					swaps++
				}
			}
		}
	}
	return swaps
}
