package sample

import (
	"testing"

	"github.com/jsphweid/voicedex/midi"
	"github.com/jsphweid/voicedex/model"
	"github.com/stretchr/testify/assert"
)

func scale(name string, base, count int) model.Part {
	p := model.Part{Name: name}
	for i := 0; i < count; i++ {
		p.Notes = append(p.Notes, model.Note{Pitch: base + i, Velocity: 80, StartTick: i * 240, Duration: 240})
	}
	return p
}

func TestExcerptShiftsAndLimits(t *testing.T) {
	assert := assert.New(t)
	s := model.Score{TicksPerBeat: 480, Parts: []model.Part{scale("v1", 72, 20), scale("pedal", 36, 2)}}

	ex := Excerpt(s, 960, 3)
	assert.Equal(480, ex.TicksPerBeat)
	assert.Len(ex.Parts, 1)
	assert.Equal("v1", ex.Parts[0].Name)
	assert.Equal([]model.Note{
		{Pitch: 76, Velocity: 80, StartTick: 0, Duration: 240},
		{Pitch: 77, Velocity: 80, StartTick: 240, Duration: 240},
		{Pitch: 78, Velocity: 80, StartTick: 480, Duration: 240},
	}, ex.Parts[0].Notes)
}

func TestExcerptPastEnd(t *testing.T) {
	s := model.Score{TicksPerBeat: 480, Parts: []model.Part{scale("v1", 72, 4)}}
	assert.Empty(t, Excerpt(s, 100000, 10).Parts)
}

func TestCreate(t *testing.T) {
	assert := assert.New(t)
	s := model.Score{TicksPerBeat: 480, Parts: []model.Part{scale("v1", 72, 20), scale("v2", 60, 20)}}

	mf, err := Create(s, 0, 10)
	assert.NoError(err)
	assert.Equal(480, midi.TicksPerBeat(mf))

	tracks, err := midi.ExtractTracks(mf)
	assert.NoError(err)
	assert.Len(tracks, 2)
	assert.Len(tracks[0].Notes, 10)
	assert.Equal("v2", tracks[1].Name)
}
