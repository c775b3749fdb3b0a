// Package quality computes diagnostics over a separation result. Every
// function here is pure; empty input yields zero values rather than errors.
package quality

import (
	"sort"

	"github.com/jsphweid/voicedex/model"
	"github.com/jsphweid/voicedex/normalize"
	"github.com/jsphweid/voicedex/util"
)

const silent = -1

// segment is a run of consecutive samples in which no voice changes pitch.
type segment struct {
	from    int
	to      int
	pitches []int
}

func (s segment) samples() int {
	return s.to - s.from
}

// grid samples which pitch each voice is sounding at regular ticks. Runs of
// identical samples are stored once, so memory follows the number of notes
// rather than the length of the piece. When a voice holds several notes the
// most recently started one wins.
type grid struct {
	start    int
	step     int
	segments []segment
}

func (g grid) tick(i int) int {
	return g.start + i*g.step
}

func sortedVoice(notes []model.Note) []model.Note {
	res := make([]model.Note, len(notes))
	copy(res, notes)
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].StartTick != res[j].StartTick {
			return res[i].StartTick < res[j].StartTick
		}
		return res[i].Pitch > res[j].Pitch
	})
	return res
}

func sortedVoices(res model.SeparationResult) [][]model.Note {
	voices := make([][]model.Note, len(res.Voices))
	for i, v := range res.Voices {
		voices[i] = sortedVoice(v)
	}
	return voices
}

// span returns the first onset and last release across all voices.
func span(voices [][]model.Note) (int, int, bool) {
	var first, last int
	found := false
	for _, v := range voices {
		for _, n := range v {
			if !found {
				first, last, found = n.StartTick, n.EndTick(), true
				continue
			}
			first = util.Min(first, n.StartTick)
			last = util.Max(last, n.EndTick())
		}
	}
	return first, last, found
}

func newGrid(voices [][]model.Note, step int) grid {
	first, last, ok := span(voices)
	g := grid{start: first, step: util.Max(step, 1)}
	if !ok {
		return g
	}
	size := (last - first + g.step - 1) / g.step
	sampleIndex := func(tick int) int {
		return util.Clamp((tick-first+g.step-1)/g.step, 0, size)
	}

	edges := map[int]bool{0: true, size: true}
	for _, notes := range voices {
		for _, n := range notes {
			edges[sampleIndex(n.StartTick)] = true
			edges[sampleIndex(n.EndTick())] = true
		}
	}
	bounds := util.GetSortedKeys(edges)
	for k := 0; k+1 < len(bounds); k++ {
		pitches := make([]int, len(voices))
		for v := range pitches {
			pitches[v] = silent
		}
		g.segments = append(g.segments, segment{from: bounds[k], to: bounds[k+1], pitches: pitches})
	}

	for v, notes := range voices {
		// notes are sorted by onset so later onsets overwrite
		for _, n := range notes {
			from, to := sampleIndex(n.StartTick), sampleIndex(n.EndTick())
			for k := sort.SearchInts(bounds, from); k < len(g.segments) && g.segments[k].from < to; k++ {
				g.segments[k].pitches[v] = n.Pitch
			}
		}
	}
	return g
}

func ticksPerBeat(res model.SeparationResult) int {
	return normalize.TicksPerBeat(res.TicksPerBeat)
}

func quarterBeatGrid(res model.SeparationResult) grid {
	return newGrid(sortedVoices(res), ticksPerBeat(res)/4)
}

func pitches(notes []model.Note) []int {
	res := make([]int, len(notes))
	for i, n := range notes {
		res[i] = n.Pitch
	}
	return res
}
