package pipeline

import (
	"context"

	"github.com/dvloznov/finance-docproc/internal/currency"
	"github.com/dvloznov/finance-docproc/internal/domain"
)

// Extractor turns raw text into a validated document.
// Failures are expected to be *extraction.Error; any other error is treated as an upstream fault.
type Extractor interface {
	Extract(ctx context.Context, rawText, userID string) (*domain.FinancialDocument, error)
}

// Converter expresses an amount in both reference currencies. It never fails.
type Converter interface {
	Convert(ctx context.Context, amount float64, sourceCurrency string) currency.Conversion
}
