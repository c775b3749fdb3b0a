package cmd

import (
	"fmt"

	"github.com/jsphweid/voicedex/chunk"
	"github.com/jsphweid/voicedex/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <chunk>",
	Short: "Inspects a chunk",
	Long:  `Prints every n-gram key of a chunk file with its byte range and record count.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inspect(args[0])
	},
}

func inspect(path string) {
	f := util.OpenFileOrPanic(path)
	defer f.Close()
	index, indexLength := chunk.ReadIndexOrPanic(f)
	fmt.Printf("index: %v bytes, %v keys\n", indexLength, len(index))
	for _, key := range util.GetSortedKeys(index) {
		val := index[key]
		fmt.Printf("key: %v\n", key)
		fmt.Printf("val: %v (%v records)\n", val, chunk.RecordCount(val))
	}
}
