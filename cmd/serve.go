package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jsphweid/voicedex/bucket"
	"github.com/jsphweid/voicedex/chunk"
	"github.com/jsphweid/voicedex/constants"
	"github.com/jsphweid/voicedex/logger"
	"github.com/jsphweid/voicedex/model"
	"github.com/jsphweid/voicedex/ngram"
	"github.com/jsphweid/voicedex/quality"
	"github.com/jsphweid/voicedex/sample"
	"github.com/jsphweid/voicedex/separate"
	"github.com/jsphweid/voicedex/util"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

const sampleNotesPerPart = 10

var allChunks []model.ChunkOverview
var fileNumToName model.FileNumToMidiPath

var port int

func init() {
	serveCmd.Flags().IntVarP(&port, "port", "p", 8080, "port to listen on")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves search and separation over HTTP",
	Long:  `Serves interval search over the index, on-demand separation and MIDI excerpts over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

type separateResponse struct {
	Result       model.SeparationResult     `json:"result"`
	Metrics      quality.Metrics            `json:"metrics"`
	Independence []quality.PairIndependence `json:"independence"`
	Spacing      []quality.SpacingHistogram `json:"spacing"`
	Crossings    []quality.CrossingEvent    `json:"crossings"`
	Activity     []quality.VoiceActivity    `json:"activity"`
	Imitation    []quality.ImitationMatch   `json:"imitation"`
}

func chunkPath(filename string) string {
	return filepath.Join(constants.GetIndexDir(), filename)
}

func LoadServeFiles() {
	allChunks = util.ReadBinaryOrPanic[[]model.ChunkOverview](util.GetAllChunksPath())
	fileNumToName = util.ReadBinaryOrPanic[model.FileNumToMidiPath](util.GetFileNumToNamePath())
}

func writeError(w http.ResponseWriter, status int, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: fmt.Sprintf(format, args...)})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func HandleSearch(w http.ResponseWriter, r *http.Request) {
	var input model.SearchRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Could not unmarshal request body: %v", err)
		return
	}

	if len(input.Intervals) != constants.NgramSize {
		writeError(w, http.StatusBadRequest, "Exactly %v intervals are required", constants.NgramSize)
		return
	}

	records, err := chunk.Find(constants.GetIndexDir(), allChunks, ngram.CreateKey(input.Intervals))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "%v", err)
		return
	}

	res := make([]model.SearchResult, 0, len(records))
	for _, rec := range records {
		res = append(res, model.SearchResult{
			FileId:      rec.FileNum,
			TicksOffset: rec.TickOffset,
			Voice:       rec.Voice,
			StartPitch:  rec.StartPitch,
		})
	}
	writeJSON(w, res)
}

func HandleSeparate(w http.ResponseWriter, r *http.Request) {
	var input model.SeparateRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Could not unmarshal request body: %v", err)
		return
	}

	if input.NumVoices < 0 || input.NumVoices > constants.MaxVoices {
		writeError(w, http.StatusBadRequest, "num_voices must be between 1 and %v, or 0 to estimate", constants.MaxVoices)
		return
	}
	if input.TicksPerBeat < 0 {
		writeError(w, http.StatusBadRequest, "Bad ticks_per_beat: %v", input.TicksPerBeat)
		return
	}

	opts := []separate.Option{
		separate.WithTicksPerBeat(input.TicksPerBeat),
		separate.WithPedal(input.Pedal),
	}
	if input.NumVoices != 0 {
		opts = append(opts, separate.WithVoiceCount(input.NumVoices))
	}
	res := separate.Separate(input.Notes, opts...)

	writeJSON(w, separateResponse{
		Result:       res,
		Metrics:      quality.Evaluate(res),
		Independence: quality.Independence(res),
		Spacing:      quality.Spacing(res),
		Crossings:    quality.CrossingEvents(res),
		Activity:     quality.Activity(res),
		Imitation:    quality.Imitation(res, quality.DefaultImitationOptions()),
	})
}

func HandleSample(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	fileId, err := strconv.ParseUint(vars["fileId"], 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Bad file id: %v", vars["fileId"])
		return
	}
	tick, err := strconv.Atoi(vars["tick"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Bad tick: %v", vars["tick"])
		return
	}

	name, ok := fileNumToName[uint32(fileId)]
	if !ok {
		writeError(w, http.StatusNotFound, "No file with id %v", fileId)
		return
	}

	s, err := bucket.LoadScore(filepath.Join(constants.GetMediaDir(), name))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "%v", err)
		return
	}
	mf, err := sample.Create(s, tick, sampleNotesPerPart)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "%v", err)
		return
	}

	w.Header().Set("Content-Type", "audio/midi")
	if _, err := mf.WriteTo(w); err != nil {
		logger.Warnf("Could not write sample for %v: %v", name, err)
	}
}

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/search", HandleSearch).Methods("POST")
	router.HandleFunc("/separate", HandleSeparate).Methods("POST")
	router.HandleFunc("/sample/{fileId}/{tick}", HandleSample).Methods("GET")
	return cors.Default().Handler(router)
}

func serve() {
	LoadServeFiles()
	addr := fmt.Sprintf(":%d", port)
	logger.Infof("Loaded %v chunks for %v files, listening on %v", len(allChunks), len(fileNumToName), addr)
	logger.Fatalf("Server stopped: %v", http.ListenAndServe(addr, NewRouter()))
}
