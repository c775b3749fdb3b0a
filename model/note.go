package model

// Note is a single symbolic note event as supplied by a loader.
type Note struct {
	Pitch      int    `json:"pitch"`
	Velocity   int    `json:"velocity"`
	StartTick  int    `json:"start_tick"`
	Duration   int    `json:"duration"`
	VoiceLabel string `json:"voice_label,omitempty"`
}

func (n Note) EndTick() int {
	return n.StartTick + n.Duration
}

type NormalizedNote struct {
	Note
	IsOrnament bool
}

type TrackType string

const (
	TrackVoice      TrackType = "voice"
	TrackSoloString TrackType = "solo_string"
	TrackManual     TrackType = "manual"
	TrackPedal      TrackType = "pedal"
)

// NeedsSeparation reports whether notes of this track type arrive without
// voice structure.
func (t TrackType) NeedsSeparation() bool {
	return t == TrackManual
}

type Track struct {
	Name  string    `json:"name"`
	Type  TrackType `json:"type"`
	Notes []Note    `json:"notes"`
}
