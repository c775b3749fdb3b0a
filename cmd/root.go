package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "voicedex",
	Short: "Voice separation and melodic search for keyboard MIDI",
	Long: `voicedex splits keyboard and organ manual tracks into independent voices,
indexes the voices for melodic interval search and reports separation quality.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
