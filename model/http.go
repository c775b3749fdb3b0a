package model

type SearchRequestBody struct {
	Intervals Intervals `json:"intervals"`
}

type SearchResult struct {
	FileId      uint32 `json:"file_id"`
	TicksOffset uint32 `json:"ticks_offset"`
	Voice       uint8  `json:"voice"`
	StartPitch  uint8  `json:"start_pitch"`
}

type SeparateRequestBody struct {
	Notes        []Note `json:"notes"`
	Pedal        []Note `json:"pedal"`
	TicksPerBeat int    `json:"ticks_per_beat"`
	NumVoices    int    `json:"num_voices"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
