package quality

import (
	"github.com/jsphweid/voicedex/constants"
	"github.com/jsphweid/voicedex/model"
)

type CrossingEvent struct {
	Upper         int  `json:"upper"`
	Lower         int  `json:"lower"`
	StartTick     int  `json:"start_tick"`
	EndTick       int  `json:"end_tick"`
	Bar           int  `json:"bar"`
	DurationTicks int  `json:"duration_ticks"`
	Resolved      bool `json:"resolved"`
}

// CrossingEvents extracts contiguous spans in which an upper voice sounds
// below a lower one. Rests inside a span do not end it; a span is resolved
// when both voices sound again in the expected order.
func CrossingEvents(res model.SeparationResult) []CrossingEvent {
	voices := sortedVoices(res)
	g := quarterBeatGrid(res)
	barTicks := constants.BeatsPerBar * ticksPerBeat(res)

	lastEnd := make([]int, len(voices))
	for v, notes := range voices {
		for _, n := range notes {
			if n.EndTick() > lastEnd[v] {
				lastEnd[v] = n.EndTick()
			}
		}
	}

	events := []CrossingEvent{}
	for a := range voices {
		for b := a + 1; b < len(voices); b++ {
			var open *CrossingEvent
			lastCrossed := 0
			closeEvent := func(resolved bool) {
				open.EndTick = g.tick(lastCrossed + 1)
				open.DurationTicks = open.EndTick - open.StartTick
				open.Resolved = resolved
				events = append(events, *open)
				open = nil
			}

			for _, seg := range g.segments {
				pa, pb := seg.pitches[a], seg.pitches[b]
				t := g.tick(seg.from)
				if pa == silent || pb == silent {
					if open != nil && (t >= lastEnd[a] || t >= lastEnd[b]) {
						closeEvent(false)
					}
					continue
				}
				if pa < pb {
					if open == nil {
						open = &CrossingEvent{Upper: a, Lower: b, StartTick: t, Bar: t/barTicks + 1}
					}
					lastCrossed = seg.to - 1
				} else if open != nil {
					closeEvent(true)
				}
			}
			if open != nil {
				closeEvent(false)
			}
		}
	}
	return events
}
