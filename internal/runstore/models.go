package runstore

import "time"

// Status represents the lifecycle of a run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusDemuxing  Status = "demuxing"
	StatusDetecting Status = "detecting"
	StatusTracking  Status = "tracking"
	StatusCropping  Status = "cropping"
	StatusScoring   Status = "scoring"
	StatusRendering Status = "rendering"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusDemuxing,
	StatusDetecting,
	StatusTracking,
	StatusCropping,
	StatusScoring,
	StatusRendering,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// Valid reports whether the status is a known lifecycle state.
func (s Status) Valid() bool {
	_, ok := statusSet[s]
	return ok
}

// Terminal reports whether the run has finished, successfully or not.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Run is one processed video.
type Run struct {
	ID           int64
	VideoPath    string
	Stem         string
	Workdir      string
	Status       Status
	ErrorMessage string
	TrackCount   int
	OutputPath   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
