package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/dvloznov/finance-docproc/internal/apperrors"
	"github.com/dvloznov/finance-docproc/internal/currency"
	"github.com/dvloznov/finance-docproc/internal/domain"
	"github.com/dvloznov/finance-docproc/internal/extraction"
)

// Stage names a pipeline state.
type Stage string

const (
	StageExtracting Stage = "extracting"
	StageConverting Stage = "converting"
	StageAssembling Stage = "assembling"
	StageDone       Stage = "done"
	StageFailed     Stage = "failed"
)

// Caller-facing message prefixes.
const (
	llmFaultPrefix      = "Failed to process text with LLM: "
	assemblyFaultPrefix = "Invalid text data or processing error: "
)

// PipelineStep represents a single step in the processing pipeline.
type PipelineStep interface {
	Stage() Stage
	Execute(ctx context.Context, state *PipelineState) error
}

// PipelineState holds the shared state across all pipeline steps.
type PipelineState struct {
	UserID  string
	RawText string

	Stage      Stage
	Document   *domain.FinancialDocument
	Conversion currency.Conversion
	Result     *domain.ProcessedFinancialDocument
}

// ExtractStep calls the extraction model and validates its reply.
type ExtractStep struct {
	extractor Extractor
}

func (s *ExtractStep) Stage() Stage { return StageExtracting }

func (s *ExtractStep) Execute(ctx context.Context, state *PipelineState) error {
	doc, err := s.extractor.Extract(ctx, state.RawText, state.UserID)
	if err != nil {
		return extractionFault(err)
	}
	state.Document = doc
	return nil
}

// extractionFault maps short text to 422, malformed replies and invariant violations to 400
// and everything else to 500.
func extractionFault(err error) *apperrors.AppError {
	var extErr *extraction.Error
	if !errors.As(err, &extErr) {
		return apperrors.New(apperrors.ErrUpstream, llmFaultPrefix+err.Error(), err)
	}
	switch extErr.Kind {
	case extraction.KindTextTooShort:
		return apperrors.New(apperrors.ErrInvalidRequest, extErr.Error(), err)
	case extraction.KindUpstreamFailure:
		return apperrors.New(apperrors.ErrUpstream, llmFaultPrefix+extErr.Error(), err)
	default:
		return apperrors.New(apperrors.ErrProcessing, llmFaultPrefix+extErr.Error(), err)
	}
}

// ConvertStep converts the document amount. It cannot fail the pipeline.
type ConvertStep struct {
	converter Converter
}

func (s *ConvertStep) Stage() Stage { return StageConverting }

func (s *ConvertStep) Execute(ctx context.Context, state *PipelineState) error {
	state.Conversion = s.converter.Convert(ctx, state.Document.Amount, state.Document.Currency)
	return nil
}

// AssembleStep builds the processed document. Any error or panic here is a 400 processing fault.
type AssembleStep struct{}

func (s *AssembleStep) Stage() Stage { return StageAssembling }

func (s *AssembleStep) Execute(_ context.Context, state *PipelineState) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.New(apperrors.ErrInvalidTextData,
				assemblyFaultPrefix+fmt.Sprint(r),
				fmt.Errorf("panic during assembly: %v", r))
		}
	}()

	result, err := domain.NewProcessedFinancialDocument(
		state.Document,
		state.Conversion.AmountINR,
		state.Conversion.AmountUSD,
		state.Conversion.RateDate,
	)
	if err != nil {
		return apperrors.New(apperrors.ErrInvalidTextData, assemblyFaultPrefix+err.Error(), err)
	}
	state.Result = result
	return nil
}
