package model

type Intervals = []int

type NgramRecord struct {
	Intervals  Intervals
	TickOffset uint32
	FileNum    uint32
	Voice      uint8
	StartPitch uint8
}

type Pair struct {
	Start uint32
	End   uint32
}

type ChunkOverview struct {
	Start    string
	End      string
	Filename string
}

type ChunkIndex = map[string]Pair
type FileNumToMidiPath = map[uint32]string
