// Package score turns the tracks of one MIDI file into the standard
// multi-voice score.
package score

import (
	"fmt"
	"sort"

	"github.com/jsphweid/voicedex/model"
	"github.com/jsphweid/voicedex/normalize"
	"github.com/jsphweid/voicedex/separate"
	"github.com/jsphweid/voicedex/util"
)

const PedalPart = "pedal"

type rankedVoice struct {
	median float64
	notes  []model.Note
}

// Assemble separates every manual track, pools the resulting voices with
// tracks that already carry a single voice and names them v1..vN from the
// highest median pitch down. Pedal tracks are merged, in track order, into one
// trailing part; their notes are never reassigned or relabelled.
func Assemble(tracks []model.Track, tpb int, opts ...separate.Option) model.Score {
	tpb = normalize.TicksPerBeat(tpb)
	s := model.Score{
		TicksPerBeat: tpb,
		Parts:        []model.Part{},
		Ornaments:    []model.Note{},
		Separations:  []model.SeparationResult{},
	}

	var pedal []model.Note
	for _, t := range tracks {
		if t.Type == model.TrackPedal {
			pedal = append(pedal, t.Notes...)
		}
	}

	trackOpts := append([]separate.Option{separate.WithTicksPerBeat(tpb), separate.WithPedal(pedal)}, opts...)

	var voices []rankedVoice
	for _, t := range tracks {
		if t.Type == model.TrackPedal {
			continue
		}
		res := separate.Track(t, trackOpts...)
		if t.Type.NeedsSeparation() {
			s.Separations = append(s.Separations, res)
		}
		s.Ornaments = append(s.Ornaments, res.Ornaments...)
		for _, v := range res.Voices {
			if len(v) == 0 {
				continue
			}
			voices = append(voices, rankedVoice{median: medianPitch(v), notes: v})
		}
	}

	sort.SliceStable(voices, func(i, j int) bool {
		return voices[i].median > voices[j].median
	})
	for i, v := range voices {
		name := fmt.Sprintf("v%d", i+1)
		s.Parts = append(s.Parts, model.Part{Name: name, Notes: label(v.notes, name)})
	}
	if len(pedal) > 0 {
		s.Parts = append(s.Parts, model.Part{Name: PedalPart, Notes: pedal})
	}
	normalize.Sort(s.Ornaments)
	return s
}

func medianPitch(notes []model.Note) float64 {
	pitches := make([]int, len(notes))
	for i, n := range notes {
		pitches[i] = n.Pitch
	}
	return util.Median(pitches)
}

func label(notes []model.Note, name string) []model.Note {
	res := make([]model.Note, len(notes))
	for i, n := range notes {
		n.VoiceLabel = name
		res[i] = n
	}
	return res
}
