package normalize

import (
	"testing"

	"github.com/jsphweid/voicedex/model"
	"github.com/stretchr/testify/assert"
)

func n(start, pitch, dur int) model.Note {
	return model.Note{StartTick: start, Pitch: pitch, Duration: dur, Velocity: 80}
}

func TestEmptyInput(t *testing.T) {
	res := Notes(nil, 480)
	assert.NotNil(t, res)
	assert.Len(t, res, 0)
}

func TestSortsByStartThenPitchDescending(t *testing.T) {
	res := Strip(Notes([]model.Note{n(480, 60, 480), n(0, 48, 480), n(0, 72, 480), n(480, 67, 480)}, 480))
	assert.Equal(t, []model.Note{n(0, 72, 480), n(0, 48, 480), n(480, 67, 480), n(480, 60, 480)}, res)
}

func TestDedupKeepsLongest(t *testing.T) {
	res := Notes([]model.Note{n(0, 60, 100), n(0, 60, 900), n(0, 60, 300)}, 480)

	assert := assert.New(t)
	assert.Len(res, 1)
	assert.Equal(900, res[0].Duration)
}

func TestDedupIsOrderIndependent(t *testing.T) {
	a := Notes([]model.Note{n(0, 60, 300), n(0, 60, 900), n(240, 62, 10)}, 480)
	b := Notes([]model.Note{n(240, 62, 10), n(0, 60, 900), n(0, 60, 300)}, 480)
	assert.Equal(t, a, b)
}

func TestOrnamentThreshold(t *testing.T) {
	// 480/8 = 60
	res := Notes([]model.Note{n(0, 60, 59), n(100, 60, 60)}, 480)

	assert := assert.New(t)
	assert.True(res[0].IsOrnament)
	assert.False(res[1].IsOrnament)
}

func TestDefaultTicksPerBeat(t *testing.T) {
	assert.True(t, IsOrnament(59, 0))
	assert.False(t, IsOrnament(60, -1))
}

func TestIdempotent(t *testing.T) {
	input := []model.Note{n(0, 60, 30), n(0, 60, 400), n(0, 72, 480), n(960, 55, 200), n(480, 50, 480)}
	once := Notes(input, 480)
	twice := Notes(Strip(once), 480)
	assert.Equal(t, once, twice)
}

func TestGroups(t *testing.T) {
	groups := Groups(Notes([]model.Note{n(0, 60, 480), n(0, 64, 480), n(480, 62, 480)}, 480))

	assert := assert.New(t)
	assert.Len(groups, 2)
	assert.Len(groups[0], 2)
	assert.Equal(64, groups[0][0].Pitch)
	assert.Len(groups[1], 1)
}
