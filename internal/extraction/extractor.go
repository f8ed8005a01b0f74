// Package extraction turns raw document text into a validated domain.FinancialDocument
// with a single call to a text-generation model.
package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/dvloznov/finance-docproc/internal/domain"
	"github.com/dvloznov/finance-docproc/internal/logger"
	"github.com/google/uuid"
)

const (
	// DefaultTimeout bounds a single model call.
	DefaultTimeout = 60 * time.Second
	// DefaultRecordTimeout bounds writing one run record.
	DefaultRecordTimeout = 10 * time.Second
)

// Extractor sends raw text to a Generator and validates the reply.
type Extractor struct {
	gen      Generator
	recorder RunRecorder
	timeout  time.Duration
	recordTO time.Duration
	now      func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTimeout bounds each model call. Zero or negative keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithRecorder stores every run with r.
func WithRecorder(r RunRecorder) Option {
	return func(e *Extractor) {
		if r != nil {
			e.recorder = r
		}
	}
}

// WithRecordTimeout bounds each RecordRun call. Zero or negative keeps the default.
func WithRecordTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.recordTO = d
		}
	}
}

// WithClock replaces the clock used for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

// NewExtractor creates an Extractor backed by gen.
func NewExtractor(gen Generator, opts ...Option) *Extractor {
	e := &Extractor{
		gen:      gen,
		recorder: NopRecorder{},
		timeout:  DefaultTimeout,
		recordTO: DefaultRecordTimeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract asks the model to structure rawText and returns a validated document owned by userID.
// Every failure is an *Error. The model is called exactly once, or not at all when the
// sanitized text is shorter than MinTextLength.
func (e *Extractor) Extract(ctx context.Context, rawText, userID string) (*domain.FinancialDocument, error) {
	log := logger.FromContext(ctx).With().Str("user_id", userID).Logger()

	clean := sanitizeText(rawText)
	if err := checkTextLength(clean); err != nil {
		log.Debug().Err(err).Msg("Rejected text before extraction")
		return nil, err
	}

	prompt := BuildPrompt(clean)
	run := Run{
		RunID:       uuid.New().String(),
		UserID:      userID,
		Model:       e.gen.ModelName(),
		StartedAt:   e.now().UTC(),
		PromptChars: len(prompt),
	}

	log.Info().
		Str("run_id", run.RunID).
		Str("model", run.Model).
		Msg("Sending extraction request")

	doc, reply, err := e.extract(ctx, prompt, userID)

	run.FinishedAt = e.now().UTC()
	run.RawReply = reply
	run.Status = RunStatusSucceeded
	if err != nil {
		run.Status = RunStatusFailed
		run.ErrorKind = err.Kind
		run.ErrorMessage = err.Error()

		ev := log.Warn()
		if err.Kind == KindUpstreamFailure {
			ev = log.Error()
		}
		ev.Err(err).
			Str("run_id", run.RunID).
			Str("kind", string(err.Kind)).
			Str("raw_reply", reply).
			Msg("Extraction failed")
	} else {
		log.Info().
			Str("run_id", run.RunID).
			Str("type", string(doc.Type)).
			Str("currency", doc.Currency).
			Dur("duration", run.Duration()).
			Msg("Extracted and validated financial data")
	}

	// The run is recorded even when the caller has gone away.
	recCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.recordTO)
	defer cancel()
	if recErr := e.recorder.RecordRun(recCtx, run); recErr != nil {
		log.Warn().Err(recErr).Str("run_id", run.RunID).Msg("Failed to record extraction run")
	}

	if err != nil {
		return nil, err
	}
	return doc, nil
}

// extract returns the raw reply alongside the outcome so failures can be audited.
func (e *Extractor) extract(ctx context.Context, prompt, userID string) (*domain.FinancialDocument, string, *Error) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	reply, err := e.gen.Generate(callCtx, prompt)
	if err != nil {
		return nil, reply, &Error{Kind: KindUpstreamFailure, Err: err}
	}
	if strings.TrimSpace(reply) == "" {
		return nil, reply, newError(KindUpstreamFailure, "empty response from model")
	}

	data, perr := parseReply(reply)
	if perr != nil {
		return nil, reply, perr
	}

	// The caller owns userId; whatever the model said is discarded.
	data[domain.FieldUserID] = userID

	doc, err := domain.NewFinancialDocument(data)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return nil, reply, &Error{Kind: KindInvariantViolation, Err: verr}
		}
		return nil, reply, &Error{Kind: KindInvariantViolation, Err: err}
	}
	return doc, reply, nil
}

func parseReply(reply string) (map[string]any, *Error) {
	clean := cleanModelJSON(reply)

	var data map[string]any
	if err := json.Unmarshal([]byte(clean), &data); err != nil {
		return nil, newError(KindMalformedReply, "unmarshal model reply: %w", err)
	}
	if data == nil {
		return nil, newError(KindMalformedReply, "model reply is not a JSON object")
	}
	return data, nil
}
