// Package voicecount estimates how many independent voices a manual track
// carries from its polyphony statistics.
package voicecount

import (
	"math"
	"sort"

	"github.com/jsphweid/voicedex/constants"
	"github.com/jsphweid/voicedex/model"
	"github.com/jsphweid/voicedex/normalize"
	"github.com/jsphweid/voicedex/util"
)

// P95 - P80 above this means transient spikes, not more voices
const spikeSpread = 2

type Result struct {
	Count        int
	ArpeggioLike bool

	P80      float64
	P90      float64
	P95      float64
	OnsetP90 float64
}

type onset struct {
	start int
	pitch int
}

func withoutPedal(notes []model.NormalizedNote, pedal []model.Note) []model.NormalizedNote {
	if len(pedal) == 0 {
		return notes
	}
	onsets := make(map[onset]bool, len(pedal))
	for _, p := range pedal {
		onsets[onset{p.StartTick, p.Pitch}] = true
	}
	var res []model.NormalizedNote
	for _, n := range notes {
		if !onsets[onset{n.StartTick, n.Pitch}] {
			res = append(res, n)
		}
	}
	return res
}

// Run is a stretch of consecutive quarter-beat samples holding the same
// number of sounding notes.
type Run struct {
	Count   int
	Samples int
}

// SoundingPolyphony samples, on a quarter-beat grid, how many notes are
// held at each point and returns the result as runs in time order. Silent
// samples are skipped. Work is proportional to the number of notes, not
// the length of the piece.
func SoundingPolyphony(notes []model.NormalizedNote, ticksPerBeat int) []Run {
	if len(notes) == 0 {
		return nil
	}
	step := util.Max(normalize.TicksPerBeat(ticksPerBeat)/4, 1)

	first := notes[0].StartTick
	for _, n := range notes {
		first = util.Min(first, n.StartTick)
	}

	// samples t = first + i*step with start <= t < end
	deltas := make(map[int]int)
	for _, n := range notes {
		from := (n.StartTick - first + step - 1) / step
		to := (n.EndTick() - first + step - 1) / step
		if from < to {
			deltas[from]++
			deltas[to]--
		}
	}

	var runs []Run
	edges := util.GetSortedKeys(deltas)
	count := 0
	for k, edge := range edges {
		count += deltas[edge]
		if count > 0 && k+1 < len(edges) {
			runs = append(runs, Run{Count: count, Samples: edges[k+1] - edge})
		}
	}
	return runs
}

// percentile is util.Percentile over the samples the runs expand to.
func percentile(runs []Run, p float64) float64 {
	sorted := make([]Run, 0, len(runs))
	total := 0
	for _, r := range runs {
		if r.Samples > 0 {
			sorted = append(sorted, r)
			total += r.Samples
		}
	}
	if total == 0 {
		return 0
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Count < sorted[j].Count })

	at := func(idx int) float64 {
		for _, r := range sorted {
			if idx < r.Samples {
				return float64(r.Count)
			}
			idx -= r.Samples
		}
		return float64(sorted[len(sorted)-1].Count)
	}

	rank := util.Clamp(p, 0, 100) / 100 * float64(total-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return at(lo)
	}
	frac := rank - float64(lo)
	return at(lo)*(1-frac) + at(hi)*frac
}

func OnsetPolyphony(notes []model.NormalizedNote) []int {
	sizes := make(map[int]int)
	for _, n := range notes {
		sizes[n.StartTick]++
	}
	res := make([]int, 0, len(sizes))
	for _, k := range util.GetSortedKeys(sizes) {
		res = append(res, sizes[k])
	}
	return res
}

// Estimate derives a voice count in [1, MaxVoices] from normalized notes.
// Notes duplicating an onset of the pedal track are ignored.
func Estimate(notes []model.NormalizedNote, pedal []model.Note, ticksPerBeat int) Result {
	notes = withoutPedal(notes, pedal)
	if len(notes) == 0 {
		return Result{Count: 1}
	}

	sounding := SoundingPolyphony(notes, ticksPerBeat)
	onsets := OnsetPolyphony(notes)

	e := Result{
		P80:      percentile(sounding, 80),
		P90:      percentile(sounding, 90),
		P95:      percentile(sounding, 95),
		OnsetP90: util.Percentile(onsets, 90),
	}

	primary := e.P90
	if e.P95-e.P80 > spikeSpread {
		primary = e.P80
	}
	e.ArpeggioLike = e.P90 >= 3 && e.OnsetP90 <= e.P90-1
	e.Count = util.Clamp(int(math.Round(primary)), 1, constants.MaxVoices)
	return e
}
