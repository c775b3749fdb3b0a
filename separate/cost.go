package separate

import (
	"math"

	"github.com/jsphweid/voicedex/model"
	"github.com/jsphweid/voicedex/util"
)

// These values are fixtures for the separation tests; do not retune.
const (
	emaAlpha       = 0.15
	crossingMargin = 2.0

	overlapPenalty           = 1000.0
	crossingPenalty          = 3.0
	sustainedCrossingPenalty = 6.0

	continuityDecayBeats = 8.0
	ornamentAttenuation  = 0.5

	silenceBeats    = 4.0
	maxSilenceBoost = 3.0

	// a voice counts as sounding for crossing checks this long after release
	recentBeats = 2
)

// cost of placing n in voice v, lower is better.
func (e *engine) cost(n model.NormalizedNote, v int) float64 {
	s := &e.states[v]
	beat := float64(e.tpb)
	pitch := float64(n.Pitch)

	var c float64
	silenceScale := 1 + maxSilenceBoost
	if s.noteCount > 0 {
		if n.StartTick < s.lastEndTick {
			c += overlapPenalty
		}

		gap := float64(util.Max(0, n.StartTick-s.lastEndTick))
		jump := math.Abs(pitch-float64(s.lastPitch)) * math.Exp(-gap/(continuityDecayBeats*beat))
		if n.IsOrnament {
			jump *= ornamentAttenuation
		}
		c += jump
		silenceScale = 1 + math.Min(gap/(silenceBeats*beat), maxSilenceBoost)
	}

	c += math.Abs(pitch-s.registerCenter) / 12 * silenceScale

	for j := range e.states {
		if j == v {
			continue
		}
		ref := e.referencePitch(j, n.StartTick)
		crossed := (v < j && pitch < ref-crossingMargin) || (v > j && pitch > ref+crossingMargin)
		if !crossed {
			continue
		}
		if s.crossingWith[j] {
			c += sustainedCrossingPenalty
		} else {
			c += crossingPenalty
		}
	}
	return c
}

// referencePitch is where voice j currently sits: its last pitch while it
// is sounding or just released, otherwise its register center.
func (e *engine) referencePitch(j, tick int) float64 {
	s := &e.states[j]
	if s.noteCount > 0 && tick-s.lastEndTick <= recentBeats*e.tpb {
		return float64(s.lastPitch)
	}
	return s.registerCenter
}

func (e *engine) costMatrix(group []model.NormalizedNote) [][]float64 {
	m := make([][]float64, len(group))
	for i, n := range group {
		m[i] = make([]float64, e.numVoices())
		for v := range m[i] {
			m[i][v] = e.cost(n, v)
		}
	}
	return m
}
