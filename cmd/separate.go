package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jsphweid/voicedex/constants"
	"github.com/jsphweid/voicedex/logger"
	"github.com/jsphweid/voicedex/midi"
	"github.com/jsphweid/voicedex/model"
	"github.com/jsphweid/voicedex/quality"
	"github.com/jsphweid/voicedex/score"
	"github.com/jsphweid/voicedex/separate"
	"github.com/jsphweid/voicedex/util"
	"github.com/spf13/cobra"
)

var separateFlags struct {
	voices int
	out    string
	json   bool
}

func init() {
	separateCmd.Flags().IntVarP(&separateFlags.voices, "voices", "n", 0, "number of voices per manual track, estimated when 0")
	separateCmd.Flags().StringVarP(&separateFlags.out, "out", "o", "", "write the separated score to this MIDI file")
	separateCmd.Flags().BoolVar(&separateFlags.json, "json", false, "print the score and metrics as JSON")
	rootCmd.AddCommand(separateCmd)
}

var separateCmd = &cobra.Command{
	Use:   "separate <file.mid>",
	Short: "Separates the manual tracks of a MIDI file into voices",
	Long: `Separates every manual track of a MIDI file into voices, prints a summary of
each voice together with quality metrics and optionally writes the separated
score back out as MIDI.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeparate(args[0])
	},
}

type separateOutput struct {
	Score   model.Score       `json:"score"`
	Metrics []quality.Metrics `json:"metrics"`
}

func separateFile(path string, voices int) (model.Score, error) {
	parsed, err := midi.ReadMidiFile(path)
	if err != nil {
		return model.Score{}, err
	}
	tracks, err := midi.ExtractTracks(parsed)
	if err != nil {
		return model.Score{}, fmt.Errorf("%s: %w", path, err)
	}

	opts := []separate.Option{separate.WithLogger(logger.GetLogger())}
	if voices != 0 {
		opts = append(opts, separate.WithVoiceCount(voices))
	}
	return score.Assemble(tracks, midi.TicksPerBeat(parsed), opts...), nil
}

func runSeparate(path string) error {
	if separateFlags.voices < 0 || separateFlags.voices > constants.MaxVoices {
		return fmt.Errorf("--voices must be between 1 and %v, or 0 to estimate", constants.MaxVoices)
	}
	s, err := separateFile(path, separateFlags.voices)
	if err != nil {
		return err
	}

	out := separateOutput{Score: s, Metrics: []quality.Metrics{}}
	for _, res := range s.Separations {
		out.Metrics = append(out.Metrics, quality.Evaluate(res))
	}

	if separateFlags.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	} else {
		printSummary(out)
	}

	if separateFlags.out != "" {
		f, err := os.Create(separateFlags.out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", separateFlags.out, err)
		}
		defer f.Close()
		if err := midi.WriteScore(f, s); err != nil {
			return err
		}
		fmt.Printf("Wrote %v\n", separateFlags.out)
	}
	return nil
}

func printSummary(out separateOutput) {
	for _, part := range out.Score.Parts {
		pitches := make([]int, len(part.Notes))
		for i, n := range part.Notes {
			pitches[i] = n.Pitch
		}
		fmt.Printf("%-6v %5v notes, median pitch %.1f\n", part.Name, len(part.Notes), util.Median(pitches))
	}
	fmt.Printf("ornaments: %v\n", len(out.Score.Ornaments))

	for i, m := range out.Metrics {
		res := out.Score.Separations[i]
		fmt.Printf("manual %v: %v voices (arpeggio-like: %v)\n", i+1, res.NumVoices, res.ArpeggioLike)
		fmt.Printf("  crossing rate %.3f, voice swaps %v, unassigned %.3f\n",
			m.CrossingRate, m.VoiceSwaps, m.UnassignedRate)
		for _, v := range m.Voices {
			fmt.Printf("  voice %v: %v notes, avg interval %.2f, gaps %.2f, overlaps %.2f\n",
				v.Voice, v.NoteCount, v.AvgInterval, v.GapRate, v.OverlapRate)
		}
	}
}
