package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/dustin/go-humanize"
	"github.com/jsphweid/voicedex/bucket"
	"github.com/jsphweid/voicedex/chunk"
	"github.com/jsphweid/voicedex/constants"
	"github.com/jsphweid/voicedex/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Reports on the index",
	Long:  `Reports bucket and chunk sizes of the index in INDEX_PATH.`,
	Run: func(cmd *cobra.Command, args []string) {
		stats()
	},
}

var chunkName = regexp.MustCompile("^[0-9a-fA-F]{8}-([0-9a-fA-F]{4}-){3}[0-9a-fA-F]{12}.dat$")

type bucketsReport struct {
	numRecords int64
	numFiles   int64
	numBytes   int64
}

type chunksReport struct {
	indexPercents    []float32
	recordsInIndexes []int64
	numFiles         int64
	numKeys          int64
	totalBytes       int64
	dataBytes        int64
}

func analyzeBuckets() bucketsReport {
	var report bucketsReport
	for _, path := range bucket.GetPaths() {
		info, err := os.Stat(path)
		if err != nil {
			panic("Could not get file stats: " + err.Error())
		}
		report.numFiles += 1
		report.numBytes += info.Size()
		report.numRecords += info.Size() / constants.RecordSize
	}
	return report
}

func analyzeChunks() chunksReport {
	var report chunksReport
	files, err := os.ReadDir(constants.GetIndexDir())
	if err != nil {
		panic("Could not read dir because: " + err.Error())
	}

	for _, file := range files {
		if !chunkName.MatchString(file.Name()) {
			continue
		}
		report.numFiles += 1
		f := util.OpenFileOrPanic(filepath.Join(constants.GetIndexDir(), file.Name()))
		index, indexLength := chunk.ReadIndexOrPanic(f)

		var recordsInIndex int64
		for _, v := range index {
			recordsInIndex += int64(chunk.RecordCount(v))
		}
		report.recordsInIndexes = append(report.recordsInIndexes, recordsInIndex)
		report.numKeys += int64(len(index))

		stats, err := f.Stat()
		if err != nil {
			panic("Could not get file stats: " + err.Error())
		}
		report.indexPercents = append(report.indexPercents, float32(indexLength+4)/float32(stats.Size()))
		report.totalBytes += stats.Size()
		report.dataBytes += stats.Size() - int64(indexLength+4)
		f.Close()
	}
	return report
}

func stats() {
	bucketsReport := analyzeBuckets()
	chunksReport := analyzeChunks()

	fmt.Printf("buckets: %v files, %v records, %v\n",
		bucketsReport.numFiles, bucketsReport.numRecords, humanize.Bytes(uint64(bucketsReport.numBytes)))
	fmt.Printf("chunks: %v files, %v keys, %v records, %v (%v data)\n",
		chunksReport.numFiles, chunksReport.numKeys, util.Sum(chunksReport.recordsInIndexes),
		humanize.Bytes(uint64(chunksReport.totalBytes)), humanize.Bytes(uint64(chunksReport.dataBytes)))
	fmt.Printf("index share per chunk: %v\n", chunksReport.indexPercents)
	fmt.Printf("average index share: %.3f\n",
		util.SafeDiv(chunksReport.totalBytes-chunksReport.dataBytes, chunksReport.totalBytes))
}
