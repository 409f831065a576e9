package history

import "time"

// Status tracks a conversion record's lifecycle.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Entry is one recorded conversion attempt.
type Entry struct {
	ID                 string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	InputPath          string
	OutputPath         string
	Container          string
	VideoCodec         string
	AudioCodec         string
	Status             Status
	ProgressPercent    int
	EstimatedSizeBytes int64
	ActualSizeBytes    int64
	ErrorMessage       string
}
