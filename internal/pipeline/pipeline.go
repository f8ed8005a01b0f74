// Package pipeline sequences extraction, currency conversion and assembly of a processed
// financial document, and maps failures to caller-facing errors.
package pipeline

import (
	"context"
	"fmt"

	"github.com/dvloznov/finance-docproc/internal/apperrors"
	"github.com/dvloznov/finance-docproc/internal/domain"
	"github.com/dvloznov/finance-docproc/internal/extraction"
	"github.com/dvloznov/finance-docproc/internal/logger"
)

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []PipelineStep
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...PipelineStep) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially, recording the current stage on state.
// On failure state.Stage is StageFailed.
func (p *Pipeline) Execute(ctx context.Context, state *PipelineState) error {
	log := logger.FromContext(ctx)

	for _, step := range p.steps {
		state.Stage = step.Stage()
		log.Debug().Str("stage", string(state.Stage)).Msg("Pipeline stage started")

		if err := step.Execute(ctx, state); err != nil {
			failedAt := state.Stage
			state.Stage = StageFailed
			log.Warn().Err(err).Str("stage", string(failedAt)).Msg("Pipeline stage failed")
			return fmt.Errorf("pipeline stage %s failed: %w", failedAt, err)
		}
	}

	state.Stage = StageDone
	return nil
}

// NewDocumentPipeline creates the standard extract, convert, assemble pipeline.
func NewDocumentPipeline(extractor Extractor, converter Converter) *Pipeline {
	return NewPipeline(
		&ExtractStep{extractor: extractor},
		&ConvertStep{converter: converter},
		&AssembleStep{},
	)
}

// Processor runs the document pipeline for one request at a time. It keeps no per-request
// state and is safe for concurrent use.
type Processor struct {
	pipeline *Pipeline
}

// NewProcessor creates a Processor.
func NewProcessor(extractor Extractor, converter Converter) *Processor {
	return &Processor{pipeline: NewDocumentPipeline(extractor, converter)}
}

// Process turns rawText into a processed document owned by userID.
// A non-nil error is always an *apperrors.AppError.
func (p *Processor) Process(ctx context.Context, userID, rawText string) (*domain.ProcessedFinancialDocument, error) {
	log := logger.WithFields(logger.FromContext(ctx), map[string]interface{}{"user_id": userID})
	ctx = logger.WithContext(ctx, log)

	// Rejected before any stage runs, so no external call is made.
	if err := extraction.CheckText(rawText); err != nil {
		log.Debug().Err(err).Msg("Rejected document text")
		return nil, extractionFault(err)
	}

	state := &PipelineState{UserID: userID, RawText: rawText}
	if err := p.pipeline.Execute(ctx, state); err != nil {
		return nil, apperrors.From(err)
	}

	log.Info().
		Str("currency", state.Result.Currency).
		Float64("total_amount_usd", state.Result.TotalAmountUSD).
		Float64("total_amount_inr", state.Result.TotalAmountINR).
		Str("exchange_rate_date", state.Result.ExchangeRateDate).
		Bool("rates_degraded", state.Conversion.Degraded).
		Msg("Document processed")

	return state.Result, nil
}
