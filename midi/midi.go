package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/jsphweid/voicedex/constants"
	"github.com/jsphweid/voicedex/model"
	"github.com/jsphweid/voicedex/util"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

var ErrNoTracks = errors.New("no tracks with notes")

var manualHints = []string{"man", "organ", "piano", "keyboard", "harpsichord"}

func ReadMidiFile(filepath string) (*smf.SMF, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return &smf.SMF{}, fmt.Errorf("reading midi file: %w", err)
	}
	return parseGuarded(filepath, func() (*smf.SMF, error) {
		return smf.ReadFrom(bytes.NewReader(dat))
	})
}

// parseGuarded turns a panic of any type inside parse into an error.
// https://github.com/gomidi/midi/issues/20
func parseGuarded(name string, parse func() (*smf.SMF, error)) (s *smf.SMF, e error) {
	defer func() {
		if r := recover(); r != nil {
			s = &smf.SMF{}
			e = fmt.Errorf("parsing midi file %s: %v", name, r)
		}
	}()

	res, err := parse()
	if err != nil {
		return &smf.SMF{}, fmt.Errorf("parsing midi file %s: %w", name, err)
	}
	return res, nil
}

func TicksPerBeat(s *smf.SMF) int {
	if tf, ok := s.TimeFormat.(smf.MetricTicks); ok && tf > 0 {
		return int(tf)
	}
	return constants.DefaultTicksPerBeat
}

type noteKey struct {
	channel uint8
	key     uint8
}

type pending struct {
	start    int
	velocity uint8
}

// ExtractTracks turns every SMF track that carries notes into a typed
// model.Track. Overlapping notes on the same channel and key are paired
// first-in first-out.
func ExtractTracks(s *smf.SMF) ([]model.Track, error) {
	var res []model.Track
	for i, track := range s.Tracks {
		t := extractTrack(track)
		if len(t.Notes) == 0 {
			continue
		}
		if t.Name == "" {
			t.Name = fmt.Sprintf("track %d", i)
		}
		res = append(res, t)
	}
	if len(res) == 0 {
		return nil, ErrNoTracks
	}
	return res, nil
}

func extractTrack(track smf.Track) model.Track {
	var t model.Track
	open := make(map[noteKey][]pending)

	var absTicks int
	for _, event := range track {
		absTicks += int(event.Delta)
		var channel, key, velocity uint8
		var name string
		msg := midi.Message(event.Message)
		switch {
		case event.Message.GetMetaTrackName(&name):
			if t.Name == "" {
				t.Name = strings.TrimSpace(name)
			}
		case msg.GetNoteStart(&channel, &key, &velocity):
			k := noteKey{channel, key}
			open[k] = append(open[k], pending{start: absTicks, velocity: velocity})
		case msg.GetNoteEnd(&channel, &key):
			k := noteKey{channel, key}
			if len(open[k]) == 0 {
				continue
			}
			p := open[k][0]
			open[k] = open[k][1:]
			t.Notes = append(t.Notes, model.Note{
				Pitch:     int(key),
				Velocity:  int(p.velocity),
				StartTick: p.start,
				Duration:  absTicks - p.start,
			})
		}
	}

	// notes never released end with the track
	for k, ps := range open {
		for _, p := range ps {
			t.Notes = append(t.Notes, model.Note{
				Pitch:     int(k.key),
				Velocity:  int(p.velocity),
				StartTick: p.start,
				Duration:  absTicks - p.start,
			})
		}
	}

	sort.SliceStable(t.Notes, func(i, j int) bool {
		if t.Notes[i].StartTick != t.Notes[j].StartTick {
			return t.Notes[i].StartTick < t.Notes[j].StartTick
		}
		return t.Notes[i].Pitch > t.Notes[j].Pitch
	})
	t.Type = classify(t.Name, t.Notes)
	return t
}

func classify(name string, notes []model.Note) model.TrackType {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "ped") {
		return model.TrackPedal
	}
	for _, hint := range manualHints {
		if strings.Contains(lower, hint) {
			return model.TrackManual
		}
	}
	if isMonophonic(notes) {
		return model.TrackVoice
	}
	return model.TrackManual
}

// isMonophonic expects notes sorted by onset.
func isMonophonic(notes []model.Note) bool {
	end := -1
	for _, n := range notes {
		if n.StartTick < end {
			return false
		}
		end = n.EndTick()
	}
	return true
}

// ToSMF builds one track per part, named after the part, with the score's
// resolution.
func ToSMF(score model.Score) (*smf.SMF, error) {
	s := smf.New()
	tpb := score.TicksPerBeat
	if tpb <= 0 {
		tpb = constants.DefaultTicksPerBeat
	}
	s.TimeFormat = smf.MetricTicks(tpb)

	for i, part := range score.Parts {
		channel := uint8(i % 16)
		if err := s.Add(partTrack(part, channel)); err != nil {
			return nil, fmt.Errorf("adding track %s: %w", part.Name, err)
		}
	}
	return s, nil
}

func WriteScore(w io.Writer, score model.Score) error {
	s, err := ToSMF(score)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("writing midi: %w", err)
	}
	return nil
}

type timedMessage struct {
	tick  int
	isOff bool
	msg   midi.Message
}

func partTrack(part model.Part, channel uint8) smf.Track {
	var events []timedMessage
	for _, n := range part.Notes {
		key := uint8(util.Clamp(n.Pitch, 0, 127))
		velocity := uint8(util.Clamp(n.Velocity, 1, 127))
		events = append(events,
			timedMessage{tick: n.StartTick, msg: midi.NoteOn(channel, key, velocity)},
			timedMessage{tick: n.EndTick(), isOff: true, msg: midi.NoteOff(channel, key)},
		)
	}
	// offs before ons at the same tick so repeated notes re-strike
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].isOff && !events[j].isOff
	})

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName(part.Name))
	var last int
	for _, e := range events {
		track.Add(uint32(e.tick-last), e.msg)
		last = e.tick
	}
	track.Close(0)
	return track
}
