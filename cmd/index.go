package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/jsphweid/voicedex/bucket"
	"github.com/jsphweid/voicedex/chunk"
	"github.com/jsphweid/voicedex/constants"
	"github.com/jsphweid/voicedex/file"
	"github.com/jsphweid/voicedex/util"
	"github.com/spf13/cobra"
)

var keepBuckets bool

func init() {
	indexCmd.Flags().BoolVar(&keepBuckets, "keep-buckets", false, "keep the intermediate bucket files for stats")
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index [max]",
	Short: "Creates index",
	Long:  `Separates every MIDI file under MEDIA_PATH and indexes the interval n-grams of each voice into INDEX_PATH.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var maxNum int
		if len(args) == 1 {
			arg1, err := strconv.Atoi(args[0])
			cobra.CheckErr(err)
			maxNum = arg1
		}

		Index(maxNum)
	},
}

// Index rebuilds the whole index from MEDIA_PATH. maxNum limits the number
// of files; 0 means all of them.
func Index(maxNum int) {
	started := time.Now()
	util.RecreateOutputDir()
	paths := util.GatherAllMidiPaths(constants.GetMediaDir(), maxNum)
	fileNumMap := file.CreateFileNumMap(paths)
	bucket.ProcessAllMidiFiles(fileNumMap)
	chunks := chunk.CreateAll()
	if !keepBuckets {
		bucket.DeleteAll()
	}
	util.CreateBinary(util.GetAllChunksPath(), chunks)
	util.CreateBinary(util.GetFileNumToNamePath(), fileNumMap)

	var total int64
	for _, c := range chunks {
		if info, err := os.Stat(chunkPath(c.Filename)); err == nil {
			total += info.Size()
		}
	}
	fmt.Printf("Indexed %v files into %v chunks (%v) in %v\n",
		len(paths), len(chunks), humanize.Bytes(uint64(total)),
		durafmt.Parse(time.Since(started)).LimitFirstN(2).String())
}
