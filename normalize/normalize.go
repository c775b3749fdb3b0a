// Package normalize prepares raw manual-track notes for voice assignment.
package normalize

import (
	"sort"

	"github.com/jsphweid/voicedex/constants"
	"github.com/jsphweid/voicedex/model"
)

type key struct {
	start int
	pitch int
}

func TicksPerBeat(tpb int) int {
	if tpb <= 0 {
		return constants.DefaultTicksPerBeat
	}
	return tpb
}

// IsOrnament reports whether a note is shorter than half a thirty-second.
func IsOrnament(duration, ticksPerBeat int) bool {
	return float64(duration) < float64(TicksPerBeat(ticksPerBeat))/8
}

func better(a, b model.Note) bool {
	if a.Duration != b.Duration {
		return a.Duration > b.Duration
	}
	return a.Velocity > b.Velocity
}

// Notes dedups notes sharing (start, pitch), keeping the longest, flags
// ornaments and sorts by start ascending then pitch descending.
func Notes(notes []model.Note, ticksPerBeat int) []model.NormalizedNote {
	if len(notes) == 0 {
		return []model.NormalizedNote{}
	}

	survivors := make(map[key]int, len(notes))
	var kept []model.Note
	for _, n := range notes {
		k := key{n.StartTick, n.Pitch}
		if idx, ok := survivors[k]; ok {
			if better(n, kept[idx]) {
				kept[idx] = n
			}
			continue
		}
		survivors[k] = len(kept)
		kept = append(kept, n)
	}

	Sort(kept)

	res := make([]model.NormalizedNote, len(kept))
	for i, n := range kept {
		res[i] = model.NormalizedNote{
			Note:       n,
			IsOrnament: IsOrnament(n.Duration, ticksPerBeat),
		}
	}
	return res
}

// Sort orders notes highest voice first within each onset.
func Sort(notes []model.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].StartTick != notes[j].StartTick {
			return notes[i].StartTick < notes[j].StartTick
		}
		return notes[i].Pitch > notes[j].Pitch
	})
}

func Strip(notes []model.NormalizedNote) []model.Note {
	res := make([]model.Note, len(notes))
	for i, n := range notes {
		res[i] = n.Note
	}
	return res
}

// Groups splits normalized notes into onset groups. The input must already
// be sorted by Notes.
func Groups(notes []model.NormalizedNote) [][]model.NormalizedNote {
	var groups [][]model.NormalizedNote
	for i := 0; i < len(notes); {
		j := i + 1
		for j < len(notes) && notes[j].StartTick == notes[i].StartTick {
			j++
		}
		groups = append(groups, notes[i:j])
		i = j
	}
	return groups
}
