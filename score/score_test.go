package score

import (
	"testing"

	"github.com/jsphweid/voicedex/model"
	"github.com/jsphweid/voicedex/separate"
	"github.com/stretchr/testify/assert"
)

func line(pitch, count int) []model.Note {
	var res []model.Note
	for i := 0; i < count; i++ {
		res = append(res, model.Note{Pitch: pitch + i%2, Velocity: 80, StartTick: i * 480, Duration: 480})
	}
	return res
}

func TestAssembleRanksVoicesAndAppendsPedal(t *testing.T) {
	assert := assert.New(t)
	manual := append(line(84, 8), line(48, 8)...)
	tracks := []model.Track{
		{Name: "Pedal", Type: model.TrackPedal, Notes: line(36, 4)},
		{Name: "Manual", Type: model.TrackManual, Notes: manual},
		{Name: "Alto", Type: model.TrackVoice, Notes: line(66, 8)},
	}

	s := Assemble(tracks, 480)
	assert.Equal(480, s.TicksPerBeat)
	assert.Len(s.Separations, 1)
	assert.Equal(2, s.Separations[0].NumVoices)
	assert.Empty(s.Ornaments)

	var names []string
	for _, p := range s.Parts {
		names = append(names, p.Name)
	}
	assert.Equal([]string{"v1", "v2", "v3", PedalPart}, names)

	v1, ok := s.Part("v1")
	assert.True(ok)
	assert.Len(v1.Notes, 8)
	for _, n := range v1.Notes {
		assert.GreaterOrEqual(n.Pitch, 84)
		assert.Equal("v1", n.VoiceLabel)
	}
	v2, _ := s.Part("v2")
	assert.Equal(66, v2.Notes[0].Pitch)
	v3, _ := s.Part("v3")
	assert.Equal(48, v3.Notes[0].Pitch)
	pedal, _ := s.Part(PedalPart)
	assert.Len(pedal.Notes, 4)
}

func TestAssembleKeepsPedalVerbatim(t *testing.T) {
	assert := assert.New(t)
	first := []model.Note{
		{Pitch: 41, Velocity: 70, StartTick: 960, Duration: 480, VoiceLabel: "Ped."},
		{Pitch: 36, Velocity: 70, StartTick: 0, Duration: 960, VoiceLabel: "Ped."},
	}
	second := []model.Note{
		{Pitch: 29, Velocity: 60, StartTick: 480, Duration: 480},
	}
	tracks := []model.Track{
		{Name: "Pedal", Type: model.TrackPedal, Notes: first},
		{Name: "Manual", Type: model.TrackManual, Notes: line(72, 4)},
		{Name: "Bass", Type: model.TrackPedal, Notes: second},
	}

	s := Assemble(tracks, 480)
	pedal, ok := s.Part(PedalPart)
	assert.True(ok)
	assert.Equal(append(append([]model.Note{}, first...), second...), pedal.Notes)
}

func TestAssembleWithoutPedal(t *testing.T) {
	s := Assemble([]model.Track{{Name: "Soprano", Type: model.TrackVoice, Notes: line(72, 3)}}, 0)
	assert.Equal(t, 480, s.TicksPerBeat)
	assert.Len(t, s.Parts, 1)
	_, ok := s.Part(PedalPart)
	assert.False(t, ok)
}

func TestAssemblePassesOptionsThrough(t *testing.T) {
	manual := append(line(84, 4), line(48, 4)...)
	s := Assemble([]model.Track{{Name: "Organ", Type: model.TrackManual, Notes: manual}}, 480,
		separate.WithVoiceCount(1))
	assert.Equal(t, 1, s.Separations[0].NumVoices)
	assert.Len(t, s.Parts, 1)
	assert.Len(t, s.Ornaments, 4)
}

func TestAssembleEmpty(t *testing.T) {
	s := Assemble(nil, 480)
	assert.Empty(t, s.Parts)
	assert.Empty(t, s.Ornaments)
}
