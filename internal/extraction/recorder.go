package extraction

import (
	"context"
	"time"
)

// Run statuses.
const (
	RunStatusSucceeded = "SUCCEEDED"
	RunStatusFailed    = "FAILED"
)

// Run describes one call to the extraction model. It never carries the processed document.
type Run struct {
	RunID        string
	UserID       string
	Model        string
	StartedAt    time.Time
	FinishedAt   time.Time
	Status       string
	ErrorKind    Kind
	ErrorMessage string
	PromptChars  int
	RawReply     string
}

// Duration is the wall time spent on the run.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunRecorder stores extraction runs for later auditing.
type RunRecorder interface {
	RecordRun(ctx context.Context, run Run) error
}

// NopRecorder discards every run.
type NopRecorder struct{}

func (NopRecorder) RecordRun(context.Context, Run) error { return nil }
