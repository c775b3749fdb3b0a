package bucket

import (
	"path/filepath"
	"testing"

	"github.com/jsphweid/voicedex/model"
	"github.com/stretchr/testify/assert"
)

func TestRecordsLandInBucketOfFirstInterval(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("INDEX_PATH", dir)

	records := []model.NgramRecord{
		{Intervals: []int{2, 2, 1, 2}, TickOffset: 0, FileNum: 1, StartPitch: 60},
		{Intervals: []int{-3, 1, 1, 1}, TickOffset: 480, FileNum: 1, Voice: 1, StartPitch: 50},
		{Intervals: []int{2, -1, 0, 0}, TickOffset: 960, FileNum: 2, StartPitch: 62},
	}

	assert := assert.New(t)
	assert.NoError(Put(records))

	paths := GetPaths()
	assert.Equal([]string{filepath.Join(dir, "125.dat"), filepath.Join(dir, "130.dat")}, paths)
	assert.Equal([]model.NgramRecord{records[1]}, ReadRecords(paths[0]))
	assert.Equal([]model.NgramRecord{records[0], records[2]}, ReadRecords(paths[1]))

	// appending keeps earlier records
	assert.NoError(Put(records[:1]))
	assert.Len(ReadRecords(paths[1]), 3)

	DeleteAll()
	assert.Empty(GetPaths())
}
