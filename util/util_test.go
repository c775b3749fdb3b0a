package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentileInterpolates(t *testing.T) {
	assert := assert.New(t)
	nums := []int{1, 2, 3, 4, 5}
	assert.Equal(1.0, Percentile(nums, 0))
	assert.Equal(3.0, Percentile(nums, 50))
	assert.Equal(5.0, Percentile(nums, 100))
	assert.InDelta(4.6, Percentile(nums, 90), 1e-9)
	assert.Equal(0.0, Percentile([]int{}, 90))
}

func TestPercentileDoesNotReorderInput(t *testing.T) {
	nums := []int{5, 1, 3}
	Percentile(nums, 50)
	assert.Equal(t, []int{5, 1, 3}, nums)
}

func TestSafeDiv(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(0.0, SafeDiv(3, 0))
	assert.Equal(0.5, SafeDiv(1, 2))
}

func TestClampAndAbs(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(6, Clamp(9, 1, 6))
	assert.Equal(1, Clamp(-2, 1, 6))
	assert.Equal(3, Abs(-3))
	assert.Equal(2.5, Abs(2.5))
}

func TestGatherAllMidiPaths(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b.mid", "a.MIDI", "notes.txt", "sub/c.mid"} {
		path := filepath.Join(root, name)
		os.MkdirAll(filepath.Dir(path), 0777)
		os.WriteFile(path, []byte{}, 0666)
	}

	assert := assert.New(t)
	assert.Equal([]string{"a.MIDI", "b.mid", "sub/c.mid"}, GatherAllMidiPaths(root, 0))
	assert.Len(GatherAllMidiPaths(root, 2), 2)
}

func TestBinaryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.dat")
	CreateBinary(path, map[uint32]string{1: "one.mid"})
	assert.Equal(t, map[uint32]string{1: "one.mid"}, ReadBinaryOrPanic[map[uint32]string](path))
}
