package bucket

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/voicedex/constants"
	"github.com/jsphweid/voicedex/logger"
	"github.com/jsphweid/voicedex/midi"
	"github.com/jsphweid/voicedex/model"
	"github.com/jsphweid/voicedex/ngram"
	"github.com/jsphweid/voicedex/score"
	"github.com/jsphweid/voicedex/util"
)

var bucketName = regexp.MustCompile(`^\d\d\d\.dat$`)

func Path(num int) string {
	return filepath.Join(constants.GetIndexDir(), fmt.Sprintf("%03d.dat", num))
}

// Put appends each record to the bucket of its first interval.
func Put(records []model.NgramRecord) error {
	grouped := make(map[int][]model.NgramRecord)
	for _, r := range records {
		num := ngram.BucketNum(r)
		grouped[num] = append(grouped[num], r)
	}

	for _, num := range util.GetSortedKeys(grouped) {
		f, err := os.OpenFile(Path(num), os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0777)
		if err != nil {
			return fmt.Errorf("opening bucket %03d: %w", num, err)
		}
		w := bufio.NewWriter(f)
		for _, r := range grouped[num] {
			b := ngram.Serialize(r)
			if _, err = w.Write(b[:]); err != nil {
				break
			}
		}
		if err == nil {
			err = w.Flush()
		}
		f.Close()
		if err != nil {
			return fmt.Errorf("writing bucket %03d: %w", num, err)
		}
	}
	return nil
}

// LoadScore reads a MIDI file and assembles its separated score.
func LoadScore(path string) (model.Score, error) {
	parsed, err := midi.ReadMidiFile(path)
	if err != nil {
		return model.Score{}, err
	}
	tracks, err := midi.ExtractTracks(parsed)
	if err != nil {
		return model.Score{}, fmt.Errorf("%s: %w", path, err)
	}
	return score.Assemble(tracks, midi.TicksPerBeat(parsed)), nil
}

func processMidiFile(fileNum uint32, filename string) error {
	path := filepath.Join(constants.GetMediaDir(), filename)
	s, err := LoadScore(path)
	if err != nil {
		return err
	}
	return Put(ngram.FromScore(s, fileNum))
}

func ProcessAllMidiFiles(m model.FileNumToMidiPath) {
	log := logger.GetLogger()
	progress := debounce.New(500 * time.Millisecond)

	keys := util.GetSortedKeys(m)
	for i, num := range keys {
		i := i
		progress(func() {
			fmt.Printf("Processing %v of %v midi files\n", i+1, len(keys))
		})
		if err := processMidiFile(num, m[num]); err != nil {
			log.Warnf("Skipping %v because: %v", m[num], err)
		}
	}
	fmt.Printf("Processed %v midi files\n", len(keys))
}

func GetPaths() []string {
	outDir := constants.GetIndexDir()
	files, err := os.ReadDir(outDir)
	if err != nil {
		panic("Could not read dir because: " + err.Error())
	}

	var res []string
	for _, file := range files {
		if bucketName.MatchString(file.Name()) {
			res = append(res, filepath.Join(outDir, file.Name()))
		}
	}
	return res
}

func DeleteAll() {
	for _, path := range GetPaths() {
		os.Remove(path)
	}
}

func ReadRecords(path string) []model.NgramRecord {
	var res []model.NgramRecord
	bucketFile := util.OpenFileOrPanic(path)
	defer bucketFile.Close()

	bucketReader := bufio.NewReader(bucketFile)
	for {
		buf := make([]byte, constants.RecordSize)
		_, err := io.ReadFull(bucketReader, buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			panic("Could not read record from file: " + err.Error())
		}
		res = append(res, ngram.Deserialize(buf))
	}
	return res
}
