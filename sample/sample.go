package sample

import (
	"github.com/jsphweid/voicedex/midi"
	"github.com/jsphweid/voicedex/model"
	"github.com/jsphweid/voicedex/util"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Create renders an excerpt of the score as a standalone MIDI file.
func Create(s model.Score, fromTick, maxNotes int) (*smf.SMF, error) {
	return midi.ToSMF(Excerpt(s, fromTick, maxNotes))
}

// Excerpt cuts an excerpt out of a score: for every part, up to maxNotes
// notes starting at or after fromTick, shifted so the excerpt starts at 0.
// Parts with nothing in range are dropped.
func Excerpt(s model.Score, fromTick, maxNotes int) model.Score {
	res := model.Score{TicksPerBeat: s.TicksPerBeat, Parts: []model.Part{}, Ornaments: []model.Note{}}

	first := -1
	for _, part := range s.Parts {
		for _, n := range part.Notes {
			if n.StartTick >= fromTick && (first < 0 || n.StartTick < first) {
				first = n.StartTick
			}
		}
	}
	if first < 0 {
		return res
	}

	for _, part := range s.Parts {
		var notes []model.Note
		for _, n := range part.Notes {
			if n.StartTick < fromTick {
				continue
			}
			if len(notes) >= util.Max(maxNotes, 1) {
				break
			}
			n.StartTick -= first
			notes = append(notes, n)
		}
		if len(notes) > 0 {
			res.Parts = append(res.Parts, model.Part{Name: part.Name, Notes: notes})
		}
	}
	return res
}
