package chunk

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jsphweid/voicedex/bucket"
	"github.com/jsphweid/voicedex/constants"
	"github.com/jsphweid/voicedex/model"
	"github.com/jsphweid/voicedex/ngram"
	"github.com/jsphweid/voicedex/util"
)

type KeyToRecords = map[string][]model.NgramRecord

// each record in the data section: tick offset, file num, voice, start pitch
const entrySize = 10

func makeChunkOverview(sortedKeys []string) model.ChunkOverview {
	var c model.ChunkOverview
	c.Filename = uuid.New().String() + ".dat"
	c.Start = sortedKeys[0]
	c.End = sortedKeys[len(sortedKeys)-1]
	return c
}

// Encode lays out a chunk: a uint32 index length, the gob encoded index of
// key to byte range, then the data section.
func Encode(m KeyToRecords, sortedKeys []string) []byte {
	chunkIndex := make(model.ChunkIndex)

	dataBuf := new(bytes.Buffer)
	for _, key := range sortedKeys {
		records := m[key]
		ngram.RankSort(records)
		p := model.Pair{Start: uint32(dataBuf.Len())}
		for _, r := range records {
			binary.Write(dataBuf, binary.LittleEndian, r.TickOffset)
			binary.Write(dataBuf, binary.LittleEndian, r.FileNum)
			dataBuf.WriteByte(r.Voice)
			dataBuf.WriteByte(r.StartPitch)
		}
		p.End = uint32(dataBuf.Len())
		chunkIndex[key] = p
	}

	indexBuf := new(bytes.Buffer)
	encoder := gob.NewEncoder(indexBuf)
	err := encoder.Encode(chunkIndex)
	if err != nil {
		panic("error making chunk, couldn't encode index: " + err.Error())
	}

	sizeBuf := new(bytes.Buffer)
	binary.Write(sizeBuf, binary.LittleEndian, uint32(indexBuf.Len()))

	var finalBytes []byte
	finalBytes = append(finalBytes, sizeBuf.Bytes()...)
	finalBytes = append(finalBytes, indexBuf.Bytes()...)
	finalBytes = append(finalBytes, dataBuf.Bytes()...)
	return finalBytes
}

func makeChunk(m KeyToRecords, sortedKeys []string) model.ChunkOverview {
	c := makeChunkOverview(sortedKeys)
	filename := filepath.Join(constants.GetIndexDir(), c.Filename)
	err := os.WriteFile(filename, Encode(m, sortedKeys), 0777)
	if err != nil {
		panic("Write failed for chunk file: " + err.Error())
	}
	for _, key := range sortedKeys {
		delete(m, key)
	}
	return c
}

func maybeMakeChunks(m KeyToRecords, force bool) []model.ChunkOverview {
	var size int
	var currKeys []string

	sortedKeys := util.GetSortedKeys(m)
	var createdChunks []model.ChunkOverview

	for i, key := range sortedKeys {
		currKeys = append(currKeys, key)
		size += len(m[key]) * entrySize
		// NOTE: not completely accurate because gob adds its own framing
		size += len(key) + 8

		isLast := len(sortedKeys)-1 == i
		if size > constants.PreferredChunkSize || (isLast && force) {
			createdChunks = append(createdChunks, makeChunk(m, currKeys))
			size = 0
			currKeys = nil
		}
	}

	return createdChunks
}

// CreateAll regroups bucket records by n-gram key and writes chunk files.
// Chunks are only cut on bucket boundaries so key ranges never overlap.
func CreateAll() []model.ChunkOverview {
	m := make(KeyToRecords)
	var res []model.ChunkOverview

	buckets := bucket.GetPaths()
	for i, bucketPath := range buckets {
		fmt.Printf("Processing %v of %v buckets\n", i+1, len(buckets))
		for _, r := range bucket.ReadRecords(bucketPath) {
			key := ngram.CreateKey(r.Intervals)
			m[key] = append(m[key], r)
		}

		isLastBucket := len(buckets)-1 == i
		res = append(res, maybeMakeChunks(m, isLastBucket)...)
	}

	return res
}

func ReadIndexOrPanic(f io.Reader) (model.ChunkIndex, uint32) {
	buf := make([]byte, 4)
	_, err := io.ReadFull(f, buf)
	if err != nil {
		panic("Could not read index length: " + err.Error())
	}
	indexLength := binary.LittleEndian.Uint32(buf)

	buf = make([]byte, indexLength)
	_, err = io.ReadFull(f, buf)
	if err != nil {
		panic("Could not read index: " + err.Error())
	}

	var index model.ChunkIndex
	decoder := gob.NewDecoder(bytes.NewReader(buf))
	err = decoder.Decode(&index)
	if err != nil {
		panic("Could not decode chunk index: " + err.Error())
	}
	return index, indexLength
}

func parseEntries(key string, buf []byte) []model.NgramRecord {
	var intervals []int
	for _, part := range bytes.Split([]byte(key), []byte("_")) {
		var v int
		fmt.Sscanf(string(part), "%d", &v)
		intervals = append(intervals, v)
	}

	var res []model.NgramRecord
	for i := 0; i+entrySize <= len(buf); i += entrySize {
		res = append(res, model.NgramRecord{
			Intervals:  intervals,
			TickOffset: binary.LittleEndian.Uint32(buf[i : i+4]),
			FileNum:    binary.LittleEndian.Uint32(buf[i+4 : i+8]),
			Voice:      buf[i+8],
			StartPitch: buf[i+9],
		})
	}
	return res
}

// FindInChunk returns every record stored under key in the given chunk
// file, ordered by file and position.
func FindInChunk(dir, filename, key string) ([]model.NgramRecord, error) {
	f, err := os.Open(filepath.Join(dir, filename))
	if err != nil {
		return nil, fmt.Errorf("opening chunk: %w", err)
	}
	defer f.Close()

	index, _ := ReadIndexOrPanic(f)
	val, ok := index[key]
	if !ok {
		return []model.NgramRecord{}, nil
	}

	// the reader now sits at the start of the data section
	if _, err = f.Seek(int64(val.Start), io.SeekCurrent); err != nil {
		return nil, fmt.Errorf("seeking chunk: %w", err)
	}
	buf := make([]byte, val.End-val.Start)
	if _, err = io.ReadFull(f, buf); err != nil {
		return nil, fmt.Errorf("reading chunk: %w", err)
	}
	return parseEntries(key, buf), nil
}

// Find looks a key up in every chunk whose key range covers it. Ranges of
// chunks cut from different buckets can interleave.
func Find(dir string, chunks []model.ChunkOverview, key string) ([]model.NgramRecord, error) {
	res := []model.NgramRecord{}
	for _, c := range chunks {
		if key < c.Start || key > c.End {
			continue
		}
		found, err := FindInChunk(dir, c.Filename, key)
		if err != nil {
			return nil, err
		}
		res = append(res, found...)
	}
	ngram.RankSort(res)
	return res, nil
}

func RecordCount(p model.Pair) int {
	return int(p.End-p.Start) / entrySize
}
