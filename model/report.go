package model

import "time"

type QualityReport struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	File           string    `json:"file" gorm:"index:idx_report_file"`
	NumVoices      int       `json:"num_voices"`
	TotalNotes     int       `json:"total_notes"`
	Ornaments      int       `json:"ornaments"`
	UnassignedRate float64   `json:"unassigned_rate"`
	CrossingRate   float64   `json:"crossing_rate"`
	VoiceSwaps     int       `json:"voice_swaps"`
	ArpeggioLike   bool      `json:"arpeggio_like"`
	CreatedAt      time.Time `json:"created_at"`
}
