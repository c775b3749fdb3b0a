package constants

import "os"

func GetIndexDir() string {
	path := os.Getenv("INDEX_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

func GetMediaDir() string {
	path := os.Getenv("MEDIA_PATH")
	if path != "" {
		return path
	}

	panic("MEDIA_PATH environment variable is not set!")
}

func GetReportDBPath() string {
	path := os.Getenv("REPORT_DB_PATH")
	if path != "" {
		return path
	}
	return "voicedex.sqlite3"
}

func GetDynamoEndpoint() string {
	endpoint := os.Getenv("DYNAMO_ENDPOINT")
	if endpoint != "" {
		return endpoint
	}
	return "http://localhost:8000"
}

const DefaultTicksPerBeat = 480

const BeatsPerBar = 4

const MaxVoices = 6

// intervals per n-gram
const NgramSize = 4

// NgramSize intervals, 4 for tick offset, 4 for fileNum, 1 voice, 1 start pitch
const RecordSize = NgramSize + 10

const PreferredChunkSize = 64 * 1024 * 1024

const AllChunksFile = "allChunks.dat"
const FileNumToNameFile = "fileNumToName.dat"
