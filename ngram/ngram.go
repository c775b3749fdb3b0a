// Package ngram extracts melodic interval n-grams from separated voices and
// packs them into fixed-size records for the bucket and chunk index.
package ngram

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jsphweid/voicedex/constants"
	"github.com/jsphweid/voicedex/model"
	"github.com/jsphweid/voicedex/util"
)

// CreateKey joins intervals with underscores, e.g. "2_-1_3_0".
func CreateKey(intervals []int) string {
	parts := make([]string, len(intervals))
	for i, v := range intervals {
		parts[i] = fmt.Sprintf("%v", v)
	}
	return strings.Join(parts, "_")
}

// Intervals returns the semitone steps between consecutive pitches.
func Intervals(pitches []int) []int {
	if len(pitches) < 2 {
		return []int{}
	}
	res := make([]int, len(pitches)-1)
	for i := 1; i < len(pitches); i++ {
		res[i-1] = pitches[i] - pitches[i-1]
	}
	return res
}

// FromScore emits one record per window of NgramSize intervals in every
// part. The bucket key of a record is its first interval, so intervals are
// clamped to the int8 range on the way in.
func FromScore(score model.Score, fileNum uint32) []model.NgramRecord {
	var res []model.NgramRecord
	for voice, part := range score.Parts {
		notes := part.Notes
		for i := 0; i+constants.NgramSize < len(notes); i++ {
			window := notes[i : i+constants.NgramSize+1]
			pitches := make([]int, len(window))
			for j, n := range window {
				pitches[j] = n.Pitch
			}
			intervals := Intervals(pitches)
			for j, v := range intervals {
				intervals[j] = util.Clamp(v, math.MinInt8, math.MaxInt8)
			}
			res = append(res, model.NgramRecord{
				Intervals:  intervals,
				TickOffset: uint32(window[0].StartTick),
				FileNum:    fileNum,
				Voice:      uint8(voice),
				StartPitch: uint8(util.Clamp(window[0].Pitch, 0, 127)),
			})
		}
	}
	return res
}

// BucketNum maps a first interval onto a non-negative bucket number.
func BucketNum(r model.NgramRecord) int {
	return r.Intervals[0] + 128
}

func Serialize(r model.NgramRecord) [constants.RecordSize]byte {
	var res [constants.RecordSize]byte
	for i := 0; i < constants.NgramSize; i++ {
		res[i] = byte(int8(r.Intervals[i]))
	}
	binary.LittleEndian.PutUint32(res[constants.NgramSize:], r.TickOffset)
	binary.LittleEndian.PutUint32(res[constants.NgramSize+4:], r.FileNum)
	res[constants.NgramSize+8] = r.Voice
	res[constants.NgramSize+9] = r.StartPitch
	return res
}

func Deserialize(b []byte) model.NgramRecord {
	var r model.NgramRecord
	r.Intervals = make([]int, constants.NgramSize)
	for i := 0; i < constants.NgramSize; i++ {
		r.Intervals[i] = int(int8(b[i]))
	}
	r.TickOffset = binary.LittleEndian.Uint32(b[constants.NgramSize:])
	r.FileNum = binary.LittleEndian.Uint32(b[constants.NgramSize+4:])
	r.Voice = b[constants.NgramSize+8]
	r.StartPitch = b[constants.NgramSize+9]
	return r
}

// RankSort orders records by file, then position, then voice.
func RankSort(records []model.NgramRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.FileNum != b.FileNum {
			return a.FileNum < b.FileNum
		}
		if a.TickOffset != b.TickOffset {
			return a.TickOffset < b.TickOffset
		}
		return a.Voice < b.Voice
	})
}
