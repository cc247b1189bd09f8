package recording

const (
	RecordFilename         = "Record"
	RecordMetadataFilename = "RecordMetadata"
)

// Recorder stores the frames of one sandbox, one message per line.
type Recorder interface {
	Record(msg string) error
	Close() error
}

type RecordMetadata struct {
	SandboxID string  `json:"sandboxId"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Step      float64 `json:"step"` // time between two frames, expressed in s
	Date      string  `json:"date"`
}
