package model

// SeparationResult holds the voices reconstructed from one manual track.
// Voices[0] is the highest register.
type SeparationResult struct {
	Voices       [][]Note `json:"voices"`
	Ornaments    []Note   `json:"ornaments"`
	NumVoices    int      `json:"num_voices"`
	ArpeggioLike bool     `json:"arpeggio_like"`
	TicksPerBeat int      `json:"ticks_per_beat"`
}

func (r SeparationResult) AssignedCount() int {
	var total int
	for _, v := range r.Voices {
		total += len(v)
	}
	return total
}

func (r SeparationResult) TotalCount() int {
	return r.AssignedCount() + len(r.Ornaments)
}

type Part struct {
	Name  string `json:"name"`
	Notes []Note `json:"notes"`
}

// Score is the standard multi-voice score: v1..vN by descending median
// pitch, followed by the pedal part when one exists.
type Score struct {
	TicksPerBeat int                `json:"ticks_per_beat"`
	Parts        []Part             `json:"parts"`
	Ornaments    []Note             `json:"ornaments"`
	Separations  []SeparationResult `json:"-"`
}

func (s Score) Part(name string) (Part, bool) {
	for _, p := range s.Parts {
		if p.Name == name {
			return p, true
		}
	}
	return Part{}, false
}
