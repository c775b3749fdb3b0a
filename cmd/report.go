package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/jsphweid/voicedex/db"
	"github.com/jsphweid/voicedex/logger"
	"github.com/jsphweid/voicedex/model"
	"github.com/jsphweid/voicedex/quality"
	"github.com/jsphweid/voicedex/util"
	"github.com/remeh/sizedwaitgroup"
	"github.com/spf13/cobra"
)

var reportFlags struct {
	workers int
	store   string
	limit   int
}

func init() {
	reportCmd.Flags().IntVarP(&reportFlags.workers, "workers", "w", 4, "files separated in parallel")
	reportCmd.Flags().StringVar(&reportFlags.store, "store", db.BackendSQLite, "report store: sqlite or dynamo")
	reportCmd.Flags().IntVar(&reportFlags.limit, "limit", 0, "maximum number of files, 0 for all")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report <dir>",
	Short: "Creates a separation quality report for a corpus",
	Long: `Separates every MIDI file under a directory in parallel, evaluates each
separated manual track and saves the quality reports to the report store.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return report(args[0])
	},
}

// reportsForFile evaluates every manual track of one file.
func reportsForFile(root, rel string) ([]model.QualityReport, error) {
	s, err := separateFile(filepath.Join(root, rel), 0)
	if err != nil {
		return nil, err
	}

	var res []model.QualityReport
	for _, sep := range s.Separations {
		m := quality.Evaluate(sep)
		res = append(res, model.QualityReport{
			File:           rel,
			NumVoices:      sep.NumVoices,
			TotalNotes:     sep.TotalCount(),
			Ornaments:      len(sep.Ornaments),
			UnassignedRate: m.UnassignedRate,
			CrossingRate:   m.CrossingRate,
			VoiceSwaps:     m.VoiceSwaps,
			ArpeggioLike:   sep.ArpeggioLike,
		})
	}
	return res, nil
}

func report(root string) error {
	started := time.Now()
	log := logger.GetLogger()
	paths := util.GatherAllMidiPaths(root, reportFlags.limit)

	store, err := db.Open(reportFlags.store)
	if err != nil {
		return err
	}
	defer store.Close()

	var mu sync.Mutex
	var reports []model.QualityReport
	var done, skipped int
	var totalBytes uint64
	progress := debounce.New(500 * time.Millisecond)

	swg := sizedwaitgroup.New(util.Max(reportFlags.workers, 1))
	for _, rel := range paths {
		swg.Add()
		go func(rel string) {
			defer swg.Done()
			res, err := reportsForFile(root, rel)
			info, statErr := os.Stat(filepath.Join(root, rel))

			mu.Lock()
			defer mu.Unlock()
			done++
			if statErr == nil {
				totalBytes += uint64(info.Size())
			}
			if err != nil {
				skipped++
				log.Warnf("Skipping %v because: %v", rel, err)
				return
			}
			reports = append(reports, res...)
			n := done
			progress(func() {
				fmt.Printf("Processing %v of %v midi files\n", n, len(paths))
			})
		}(rel)
	}
	swg.Wait()

	if err := store.Save(reports); err != nil {
		return err
	}

	var crossing []float64
	var arpeggios int
	for _, r := range reports {
		crossing = append(crossing, r.CrossingRate)
		if r.ArpeggioLike {
			arpeggios++
		}
	}
	fmt.Printf("Separated %v manual tracks from %v files (%v, %v skipped) in %v\n",
		len(reports), len(paths), humanize.Bytes(totalBytes), skipped,
		durafmt.Parse(time.Since(started)).LimitFirstN(2).String())
	fmt.Printf("mean crossing rate: %.4f, arpeggio-like tracks: %v\n", util.Mean(crossing), arpeggios)
	return nil
}
