package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/dvloznov/finance-docproc/internal/extraction"
)

// ExtractionRunRow is one row of <dataset>.extraction_runs.
type ExtractionRunRow struct {
	RunID  string `bigquery:"run_id"`  // REQUIRED
	UserID string `bigquery:"user_id"` // REQUIRED

	ModelName string `bigquery:"model_name"` // REQUIRED

	StartedTS  time.Time              `bigquery:"started_ts"`  // REQUIRED
	FinishedTS bigquery.NullTimestamp `bigquery:"finished_ts"` // NULLABLE
	DurationMS int64                  `bigquery:"duration_ms"` // REQUIRED

	Status       string              `bigquery:"status"`        // SUCCEEDED | FAILED
	ErrorKind    bigquery.NullString `bigquery:"error_kind"`    // NULLABLE
	ErrorMessage bigquery.NullString `bigquery:"error_message"` // NULLABLE

	PromptChars int64               `bigquery:"prompt_chars"` // REQUIRED
	RawReply    bigquery.NullString `bigquery:"raw_reply"`    // NULLABLE, truncated
}

const (
	maxErrorMessageLen = 2000
	maxRawReplyLen     = 64 * 1024
)

// NewExtractionRunRow converts a run into its table row, truncating long text columns.
func NewExtractionRunRow(run extraction.Run) *ExtractionRunRow {
	row := &ExtractionRunRow{
		RunID:       run.RunID,
		UserID:      run.UserID,
		ModelName:   run.Model,
		StartedTS:   run.StartedAt,
		DurationMS:  run.Duration().Milliseconds(),
		Status:      run.Status,
		PromptChars: int64(run.PromptChars),
	}
	if !run.FinishedAt.IsZero() {
		row.FinishedTS = bigquery.NullTimestamp{Timestamp: run.FinishedAt, Valid: true}
	}
	if run.ErrorKind != "" {
		row.ErrorKind = bigquery.NullString{StringVal: string(run.ErrorKind), Valid: true}
	}
	if run.ErrorMessage != "" {
		row.ErrorMessage = bigquery.NullString{StringVal: truncate(run.ErrorMessage, maxErrorMessageLen), Valid: true}
	}
	if run.RawReply != "" {
		row.RawReply = bigquery.NullString{StringVal: truncate(run.RawReply, maxRawReplyLen), Valid: true}
	}
	return row
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func utf8RuneStart(b byte) bool { return b&0xC0 != 0x80 }
