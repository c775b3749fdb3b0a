package separate

import (
	"github.com/jsphweid/voicedex/logger"
	"github.com/jsphweid/voicedex/model"
	"github.com/jsphweid/voicedex/util"
)

type voiceState struct {
	lastPitch      int
	lastEndTick    int
	registerCenter float64
	noteCount      int
	crossingWith   []bool
}

// engine owns all scratch state for one separation call.
type engine struct {
	tpb       int
	states    []voiceState
	voices    [][]model.Note
	ornaments []model.Note
	log       Logger
}

// Register centers are seeded from evenly spaced quantiles of the whole
// pitch population, voice 0 from the top.
func newEngine(numVoices, tpb int, notes []model.NormalizedNote, log Logger) *engine {
	if log == nil {
		log = logger.Nop{}
	}
	pitches := make([]int, len(notes))
	for i, n := range notes {
		pitches[i] = n.Pitch
	}

	e := &engine{
		tpb:       tpb,
		states:    make([]voiceState, numVoices),
		voices:    make([][]model.Note, numVoices),
		ornaments: []model.Note{},
		log:       log,
	}
	for i := range e.states {
		q := 1 - (float64(i)+0.5)/float64(numVoices)
		e.states[i].registerCenter = util.Percentile(pitches, q*100)
		e.states[i].crossingWith = make([]bool, numVoices)
		e.voices[i] = []model.Note{}
	}
	return e
}

func (e *engine) numVoices() int {
	return len(e.states)
}

func (e *engine) processGroup(group []model.NormalizedNote) {
	if len(group) <= e.numVoices() {
		e.assignExact(group)
		return
	}

	var mains, extra []model.NormalizedNote
	for _, n := range group {
		if n.IsOrnament {
			extra = append(extra, n)
		} else {
			mains = append(mains, n)
		}
	}
	if len(mains) > e.numVoices() {
		var overflow []model.NormalizedNote
		mains, overflow = selectSpread(mains, e.numVoices())
		extra = append(overflow, extra...)
	}

	e.log.Debugf("onset %d: %d notes for %d voices, %d to ornaments",
		group[0].StartTick, len(group), e.numVoices(), len(extra))

	e.assignExact(mains)
	for _, n := range extra {
		e.ornaments = append(e.ornaments, n.Note)
	}
}

func (e *engine) assignExact(group []model.NormalizedNote) {
	if len(group) == 0 {
		return
	}
	assignment, _ := bestAssignment(e.costMatrix(group), e.numVoices())
	e.commit(group, assignment)
}

func (e *engine) commit(group []model.NormalizedNote, assignment []int) {
	for i, v := range assignment {
		n := group[i]
		s := &e.states[v]
		s.lastPitch = n.Pitch
		s.lastEndTick = util.Max(s.lastEndTick, n.EndTick())
		s.registerCenter = (1-emaAlpha)*s.registerCenter + emaAlpha*float64(n.Pitch)
		s.noteCount++
		e.voices[v] = append(e.voices[v], n.Note)
	}
	e.updateCrossings()
}

// updateCrossings flags pairs whose register centers have inverted the
// expected order by more than the margin.
func (e *engine) updateCrossings() {
	for i := range e.states {
		for j := i + 1; j < len(e.states); j++ {
			crossed := e.states[i].registerCenter < e.states[j].registerCenter-crossingMargin
			e.states[i].crossingWith[j] = crossed
			e.states[j].crossingWith[i] = crossed
		}
	}
}

func (e *engine) result() model.SeparationResult {
	return model.SeparationResult{
		Voices:       e.voices,
		Ornaments:    e.ornaments,
		NumVoices:    e.numVoices(),
		TicksPerBeat: e.tpb,
	}
}
