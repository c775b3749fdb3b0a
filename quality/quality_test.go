package quality

import (
	"testing"

	"github.com/jsphweid/voicedex/model"
	"github.com/stretchr/testify/assert"
)

func n(pitch, start, duration int) model.Note {
	return model.Note{Pitch: pitch, StartTick: start, Duration: duration, Velocity: 80}
}

func result(voices ...[]model.Note) model.SeparationResult {
	return model.SeparationResult{Voices: voices, NumVoices: len(voices), TicksPerBeat: 480}
}

func TestEmptyResultYieldsZeroValues(t *testing.T) {
	assert := assert.New(t)
	res := result([]model.Note{}, []model.Note{})

	m := Evaluate(res)
	assert.Len(m.Voices, 2)
	assert.Equal(0.0, m.CrossingRate)
	assert.Equal(0, m.VoiceSwaps)
	assert.Equal(0.0, m.UnassignedRate)
	assert.Equal([]float64{0}, m.RegisterOverlap)

	assert.Len(Independence(res), 1)
	assert.Empty(CrossingEvents(res))
	assert.Empty(Imitation(res, DefaultImitationOptions()))
	assert.Equal(0.0, Activity(res)[0].ActiveRatio)
	assert.Equal(0, Spacing(res)[0].Samples)
}

func TestEvaluateBasicMetrics(t *testing.T) {
	assert := assert.New(t)
	res := result(
		[]model.Note{n(72, 0, 480), n(74, 480, 480)},
		[]model.Note{n(60, 0, 480), n(59, 600, 360)},
	)
	res.Ornaments = []model.Note{n(90, 10, 20)}

	m := Evaluate(res)
	assert.Equal(2.0, m.Voices[0].AvgInterval)
	assert.Equal(0.0, m.Voices[0].GapRate)
	assert.Equal(1.0, m.Voices[1].GapRate)
	assert.Equal(73.0, m.Voices[0].MedianPitch)
	assert.Equal([]float64{0}, m.RegisterOverlap)
	assert.Equal(0.0, m.CrossingRate)
	assert.Equal(0, m.VoiceSwaps)
	assert.InDelta(0.2, m.UnassignedRate, 1e-9)
}

func TestEvaluateOverlapRate(t *testing.T) {
	res := result([]model.Note{n(60, 0, 600), n(62, 480, 480)})
	assert.Equal(t, 1.0, Evaluate(res).Voices[0].OverlapRate)
}

func TestRegisterOverlapIsInclusive(t *testing.T) {
	res := result(
		[]model.Note{n(64, 0, 480), n(67, 480, 480)},
		[]model.Note{n(60, 0, 480), n(64, 480, 480)},
	)
	// {64..67} and {60..64} share one semitone out of eight
	assert.InDelta(t, 1.0/8, Evaluate(res).RegisterOverlap[0], 1e-9)
}

func TestCrossingRateAndSwaps(t *testing.T) {
	assert := assert.New(t)
	res := result(
		[]model.Note{n(60, 0, 960)},
		[]model.Note{n(72, 0, 960)},
	)
	m := Evaluate(res)
	assert.Equal(1.0, m.CrossingRate)
	assert.Equal(1, m.VoiceSwaps)
}

func TestUnresolvedCrossingEvent(t *testing.T) {
	assert := assert.New(t)
	res := result(
		[]model.Note{n(60, 0, 960)},
		[]model.Note{n(72, 0, 960)},
	)
	events := CrossingEvents(res)
	assert.Len(events, 1)
	assert.Equal(CrossingEvent{
		Upper: 0, Lower: 1, StartTick: 0, EndTick: 960, Bar: 1, DurationTicks: 960, Resolved: false,
	}, events[0])
}

func TestResolvedCrossingEvent(t *testing.T) {
	assert := assert.New(t)
	res := result(
		[]model.Note{n(60, 1920, 480), n(76, 2400, 480)},
		[]model.Note{n(64, 1920, 960)},
	)
	events := CrossingEvents(res)
	assert.Len(events, 1)
	assert.Equal(1920, events[0].StartTick)
	assert.Equal(2400, events[0].EndTick)
	assert.Equal(480, events[0].DurationTicks)
	assert.True(events[0].Resolved)
}

func TestCrossingEventSpansRests(t *testing.T) {
	assert := assert.New(t)
	res := result(
		[]model.Note{n(60, 0, 480), n(61, 960, 480), n(80, 1440, 480)},
		[]model.Note{n(70, 0, 1920)},
	)
	events := CrossingEvents(res)
	assert.Len(events, 1)
	assert.Equal(0, events[0].StartTick)
	assert.Equal(1440, events[0].EndTick)
	assert.True(events[0].Resolved)
}

func TestSpacingHistogram(t *testing.T) {
	assert := assert.New(t)
	res := result(
		[]model.Note{n(72, 0, 480), n(60, 480, 480)},
		[]model.Note{n(60, 0, 960)},
	)
	h := Spacing(res)[0]
	assert.Equal(8, h.Samples)
	assert.Equal(map[int]int{12: 4, 0: 4}, h.Histogram)
	assert.Equal(6.0, h.Mean)
	assert.Equal(12, h.Max)
	assert.Equal(4, h.Unisons)
	assert.Equal(0, h.Crossed)
}

func TestActivity(t *testing.T) {
	assert := assert.New(t)
	res := result(
		[]model.Note{n(72, 0, 480), n(72, 960, 480)},
		[]model.Note{n(60, 0, 1440)},
	)
	a := Activity(res)
	assert.Len(a, 2)
	assert.Equal(960, a[0].SoundingTicks)
	assert.InDelta(2.0/3, a[0].ActiveRatio, 1e-9)
	assert.Equal(1, a[0].RestCount)
	assert.Equal(480.0, a[0].MeanRestTicks)
	assert.Equal(480, a[0].LongestRestTicks)
	assert.Equal(1.0, a[1].ActiveRatio)
	assert.Equal(0, a[1].RestCount)
}

func TestActivityMergesOverlappingNotes(t *testing.T) {
	res := result([]model.Note{n(72, 0, 600), n(74, 480, 480)})
	assert.Equal(t, 960, Activity(res)[0].SoundingTicks)
}

func TestIndependenceContraryMotion(t *testing.T) {
	assert := assert.New(t)
	res := result(
		[]model.Note{n(72, 0, 480), n(74, 480, 480), n(76, 960, 480), n(78, 1440, 480)},
		[]model.Note{n(60, 0, 480), n(58, 480, 480), n(56, 960, 480), n(54, 1440, 480)},
	)
	p := Independence(res)[0]
	assert.Equal(0.0, p.Rhythmic)
	assert.Equal(1.0, p.Contour)
	assert.Equal(0.0, p.ActivityCorrelation)
	assert.InDelta(2.0/3, p.Score, 1e-9)
}

func TestIndependenceParallelMotion(t *testing.T) {
	res := result(
		[]model.Note{n(72, 0, 480), n(74, 480, 480), n(76, 960, 480)},
		[]model.Note{n(60, 0, 480), n(62, 480, 480), n(64, 960, 480)},
	)
	assert.Equal(t, 0.0, Independence(res)[0].Contour)
}

func TestIndependenceRhythm(t *testing.T) {
	assert := assert.New(t)
	res := result(
		[]model.Note{n(72, 0, 480), n(74, 960, 480)},
		[]model.Note{n(60, 480, 480), n(62, 1440, 480)},
	)
	p := Independence(res)[0]
	assert.Equal(1.0, p.Rhythmic)
	assert.InDelta(-1.0, p.ActivityCorrelation, 1e-9)
}

func TestImitationFindsTransposedEntry(t *testing.T) {
	assert := assert.New(t)
	subject := []int{60, 62, 64, 65, 67}
	var leader, follower []model.Note
	for i, p := range subject {
		leader = append(leader, n(p, i*480, 480))
		follower = append(follower, n(p-12, 960+i*480, 480))
	}

	matches := Imitation(result(leader, follower), DefaultImitationOptions())
	assert.Equal([]ImitationMatch{{
		Leader:        0,
		Follower:      1,
		LeaderTick:    0,
		FollowerTick:  960,
		LagTicks:      960,
		Transposition: -12,
		Length:        5,
	}}, matches)
}

func TestImitationRespectsMaxLag(t *testing.T) {
	subject := []int{60, 62, 64, 65, 67}
	var leader, follower []model.Note
	for i, p := range subject {
		leader = append(leader, n(p, i*480, 480))
		follower = append(follower, n(p+7, 9*480+i*480, 480))
	}
	assert.Empty(t, Imitation(result(leader, follower), DefaultImitationOptions()))

	opts := DefaultImitationOptions()
	opts.MaxLagBeats = 9
	assert.Len(t, Imitation(result(leader, follower), opts), 1)
}

func TestImitationSkipsRepeatedNotes(t *testing.T) {
	var leader, follower []model.Note
	for i := 0; i < 6; i++ {
		leader = append(leader, n(60, i*480, 480))
		follower = append(follower, n(48, 480+i*480, 480))
	}
	assert.Empty(t, Imitation(result(leader, follower), DefaultImitationOptions()))
}

func TestSparseWideSpan(t *testing.T) {
	assert := assert.New(t)
	// a quarter-beat step of one tick over tens of millions of ticks
	far := 50_000_000
	res := result(
		[]model.Note{n(60, 0, 4), n(74, far, 4)},
		[]model.Note{n(64, 0, 4), n(62, far, 4)},
	)
	res.TicksPerBeat = 4

	m := Evaluate(res)
	assert.InDelta(0.5, m.CrossingRate, 1e-9)

	h := Spacing(res)[0]
	assert.Equal(8, h.Samples)
	assert.Equal(map[int]int{-4: 4, 12: 4}, h.Histogram)

	events := CrossingEvents(res)
	assert.Len(events, 1)
	assert.Equal(4, events[0].EndTick)
	assert.True(events[0].Resolved)

	p := Independence(res)[0]
	assert.Equal(0.0, p.Rhythmic)
	assert.Equal(0.0, p.Contour)
	assert.InDelta(1.0, p.ActivityCorrelation, 1e-9)
}
