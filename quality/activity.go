package quality

import (
	"github.com/jsphweid/voicedex/model"
	"github.com/jsphweid/voicedex/util"
)

type VoiceActivity struct {
	Voice            int     `json:"voice"`
	NoteCount        int     `json:"note_count"`
	SoundingTicks    int     `json:"sounding_ticks"`
	ActiveRatio      float64 `json:"active_ratio"`
	RestCount        int     `json:"rest_count"`
	MeanRestTicks    float64 `json:"mean_rest_ticks"`
	LongestRestTicks int     `json:"longest_rest_ticks"`
}

// Activity reports how much of the piece each voice is sounding, measured
// against the span of the whole result.
func Activity(res model.SeparationResult) []VoiceActivity {
	voices := sortedVoices(res)
	first, last, _ := span(voices)

	out := make([]VoiceActivity, len(voices))
	for v, notes := range voices {
		va := VoiceActivity{Voice: v, NoteCount: len(notes)}
		var rests []int
		if len(notes) > 0 {
			curStart, curEnd := notes[0].StartTick, notes[0].EndTick()
			for _, n := range notes[1:] {
				if n.StartTick > curEnd {
					va.SoundingTicks += curEnd - curStart
					rests = append(rests, n.StartTick-curEnd)
					curStart, curEnd = n.StartTick, n.EndTick()
					continue
				}
				curEnd = util.Max(curEnd, n.EndTick())
			}
			va.SoundingTicks += curEnd - curStart
		}
		va.ActiveRatio = util.SafeDiv(va.SoundingTicks, last-first)
		va.RestCount = len(rests)
		va.MeanRestTicks = util.Mean(rests)
		for _, r := range rests {
			va.LongestRestTicks = util.Max(va.LongestRestTicks, r)
		}
		out[v] = va
	}
	return out
}
