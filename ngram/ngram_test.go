package ngram

import (
	"testing"

	"github.com/jsphweid/voicedex/model"
	"github.com/stretchr/testify/assert"
)

func TestCreateKey(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("2_-1_3_0", CreateKey([]int{2, -1, 3, 0}))
	assert.Equal("", CreateKey(nil))
}

func TestIntervals(t *testing.T) {
	assert := assert.New(t)
	assert.Equal([]int{2, 2, -4}, Intervals([]int{60, 62, 64, 60}))
	assert.Equal([]int{}, Intervals([]int{60}))
}

func part(name string, pitches ...int) model.Part {
	p := model.Part{Name: name}
	for i, pitch := range pitches {
		p.Notes = append(p.Notes, model.Note{Pitch: pitch, StartTick: i * 480, Duration: 480})
	}
	return p
}

func TestFromScore(t *testing.T) {
	assert := assert.New(t)
	score := model.Score{Parts: []model.Part{
		part("v1", 72, 74, 76, 77, 79, 81),
		part("v2", 48, 50, 52),
	}}

	records := FromScore(score, 7)
	assert.Equal([]model.NgramRecord{
		{Intervals: []int{2, 2, 1, 2}, TickOffset: 0, FileNum: 7, Voice: 0, StartPitch: 72},
		{Intervals: []int{2, 1, 2, 2}, TickOffset: 480, FileNum: 7, Voice: 0, StartPitch: 74},
	}, records)
}

func TestFromScoreClampsLeaps(t *testing.T) {
	score := model.Score{Parts: []model.Part{part("v1", 0, 127, 0, 127, 0)}}
	records := FromScore(score, 0)
	assert.Equal(t, []int{127, -127, 127, -127}, records[0].Intervals)
}

func TestRecordSerializeDeserialize(t *testing.T) {
	r := model.NgramRecord{
		Intervals:  []int{-12, 7, 0, 128 - 1},
		TickOffset: 123456,
		FileNum:    42,
		Voice:      3,
		StartPitch: 60,
	}

	assert := assert.New(t)
	b := Serialize(r)
	assert.Equal(r, Deserialize(b[:]))
	assert.Equal(r.Intervals[0]+128, BucketNum(r))
}

func TestRankSort(t *testing.T) {
	records := []model.NgramRecord{
		{FileNum: 2, TickOffset: 0},
		{FileNum: 1, TickOffset: 960, Voice: 1},
		{FileNum: 1, TickOffset: 960, Voice: 0},
		{FileNum: 1, TickOffset: 0},
	}
	RankSort(records)

	assert := assert.New(t)
	assert.Equal(uint32(1), records[0].FileNum)
	assert.Equal(uint32(0), records[0].TickOffset)
	assert.Equal(uint8(0), records[1].Voice)
	assert.Equal(uint8(1), records[2].Voice)
	assert.Equal(uint32(2), records[3].FileNum)
}
