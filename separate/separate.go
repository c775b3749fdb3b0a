// Package separate reconstructs independent voices from an undivided manual
// track. Separation is a single forward pass over onset groups; every group
// is assigned to voice slots by exhaustive minimum-cost search.
package separate

import (
	"github.com/jsphweid/voicedex/constants"
	"github.com/jsphweid/voicedex/logger"
	"github.com/jsphweid/voicedex/model"
	"github.com/jsphweid/voicedex/normalize"
	"github.com/jsphweid/voicedex/util"
	"github.com/jsphweid/voicedex/voicecount"
)

type Logger interface {
	Debugf(format string, args ...any)
}

type Config struct {
	NumVoices    int
	Pinned       bool
	TicksPerBeat int
	Pedal        []model.Note
	Logger       Logger
}

type Option func(*Config)

// WithVoiceCount pins the number of voices instead of estimating it.
// Values are clamped to [1, MaxVoices].
func WithVoiceCount(n int) Option {
	return func(c *Config) {
		c.NumVoices = util.Clamp(n, 1, constants.MaxVoices)
		c.Pinned = true
	}
}

func WithTicksPerBeat(tpb int) Option {
	return func(c *Config) {
		c.TicksPerBeat = tpb
	}
}

// WithPedal supplies the sibling pedal track. It is only used to discount
// doubled onsets when estimating the voice count.
func WithPedal(pedal []model.Note) Option {
	return func(c *Config) {
		c.Pedal = pedal
	}
}

func WithLogger(l Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

func newConfig(opts []Option) *Config {
	c := &Config{Logger: logger.Nop{}}
	for _, opt := range opts {
		opt(c)
	}
	c.TicksPerBeat = normalize.TicksPerBeat(c.TicksPerBeat)
	if c.Logger == nil {
		c.Logger = logger.Nop{}
	}
	return c
}

// Separate assigns every note of a manual track to a voice or to the
// ornament overflow.
func Separate(notes []model.Note, opts ...Option) model.SeparationResult {
	cfg := newConfig(opts)
	normalized := normalize.Notes(notes, cfg.TicksPerBeat)

	est := voicecount.Estimate(normalized, cfg.Pedal, cfg.TicksPerBeat)
	numVoices := est.Count
	if cfg.Pinned {
		numVoices = cfg.NumVoices
	} else {
		cfg.Logger.Debugf("estimated %d voices (p80=%.1f p90=%.1f p95=%.1f onset p90=%.1f)",
			est.Count, est.P80, est.P90, est.P95, est.OnsetP90)
	}

	e := newEngine(numVoices, cfg.TicksPerBeat, normalized, cfg.Logger)
	for _, group := range normalize.Groups(normalized) {
		e.processGroup(group)
	}

	res := e.result()
	res.ArpeggioLike = est.ArpeggioLike
	return res
}

// Track separates manual tracks and passes already-voiced tracks through
// as a single voice.
func Track(track model.Track, opts ...Option) model.SeparationResult {
	if track.Type.NeedsSeparation() {
		return Separate(track.Notes, opts...)
	}

	cfg := newConfig(opts)
	notes := make([]model.Note, len(track.Notes))
	copy(notes, track.Notes)
	return model.SeparationResult{
		Voices:       [][]model.Note{notes},
		Ornaments:    []model.Note{},
		NumVoices:    1,
		TicksPerBeat: cfg.TicksPerBeat,
	}
}
