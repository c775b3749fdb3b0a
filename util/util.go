package util

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/voicedex/constants"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

type Number interface {
	constraints.Integer | constraints.Float
}

func RecreateOutputDir() {
	dir := constants.GetIndexDir()
	os.RemoveAll(dir)
	os.MkdirAll(dir, 0777)
}

func GetAllChunksPath() string {
	return filepath.Join(constants.GetIndexDir(), constants.AllChunksFile)
}

func GetFileNumToNamePath() string {
	return filepath.Join(constants.GetIndexDir(), constants.FileNumToNameFile)
}

// GatherAllMidiPaths returns paths relative to root. maxNum of 0 means no limit.
func GatherAllMidiPaths(root string, maxNum int) []string {
	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		lower := strings.ToLower(s)
		if strings.HasSuffix(lower, ".mid") || strings.HasSuffix(lower, ".midi") {
			if maxNum == 0 || len(res) < maxNum {
				rel, err := filepath.Rel(root, s)
				if err != nil {
					rel = s
				}
				res = append(res, rel)
			}
		}
		return nil
	}
	if err := filepath.WalkDir(root, walk); err != nil {
		fmt.Printf("Stopped walking %v early: %v\n", root, err)
	}
	slices.Sort(res)
	return res
}

func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func GetSortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := GetKeys(m)
	slices.Sort(keys)
	return keys
}

func CreateBinary(filename string, data any) {
	fmt.Printf("Creating binary for filename: %v\n", filename)
	buf := new(bytes.Buffer)
	encoder := gob.NewEncoder(buf)

	err := encoder.Encode(data)
	if err != nil {
		panic(err)
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0777); err != nil {
		fmt.Println("Write failed for file: "+filename, err)
	}
}

func OpenFileOrPanic(path string) *os.File {
	f, err := os.Open(path)
	if err != nil {
		panic("Couldn't read file: " + err.Error())
	}
	return f
}

func ReadBinaryOrPanic[A any](path string) A {
	f, err := os.Open(path)
	if err != nil {
		panic("Could not load binary file: " + err.Error())
	}
	defer f.Close()

	var data A
	decoder := gob.NewDecoder(f)
	err = decoder.Decode(&data)
	if err != nil {
		panic("Could not decode binary file: " + err.Error())
	}

	return data
}

func Min[A constraints.Ordered](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Max[A constraints.Ordered](num1 A, num2 A) A {
	if num1 < num2 {
		return num2
	}
	return num1
}

func Abs[A constraints.Signed | constraints.Float](num A) A {
	if num < 0 {
		return -num
	}
	return num
}

func Clamp[A constraints.Ordered](num, lo, hi A) A {
	return Max(lo, Min(num, hi))
}

func Sum[A constraints.Integer](nums []A) uint64 {
	var total uint64
	for _, v := range nums {
		total += uint64(v)
	}
	return total
}

func Mean[A Number](nums []A) float64 {
	if len(nums) == 0 {
		return 0
	}
	var total float64
	for _, v := range nums {
		total += float64(v)
	}
	return total / float64(len(nums))
}

// Percentile uses linear interpolation between closest ranks, p in [0, 100].
func Percentile[A Number](nums []A, p float64) float64 {
	if len(nums) == 0 {
		return 0
	}
	sorted := make([]float64, len(nums))
	for i, v := range nums {
		sorted[i] = float64(v)
	}
	slices.Sort(sorted)

	rank := Clamp(p, 0, 100) / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func Median[A Number](nums []A) float64 {
	return Percentile(nums, 50)
}

// SafeDiv returns 0 when the denominator is 0.
func SafeDiv[A Number, B Number](num A, denom B) float64 {
	if denom == 0 {
		return 0
	}
	return float64(num) / float64(denom)
}
