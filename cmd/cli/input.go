package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dvloznov/finance-docproc/internal/domain"
	"github.com/dvloznov/finance-docproc/internal/gcs"
)

// inputSource describes where process reads its document text from.
// Exactly one of Text, File and GCSURI must be set.
type inputSource struct {
	Text   string
	File   string
	GCSURI string

	Stdin io.Reader
	GCS   gcs.TextSource
}

var errNoInput = errors.New("one of --text, --file or --gcs-uri is required")

func readInput(ctx context.Context, in inputSource) (string, error) {
	set := 0
	for _, v := range []string{in.Text, in.File, in.GCSURI} {
		if v != "" {
			set++
		}
	}
	switch {
	case set == 0:
		return "", errNoInput
	case set > 1:
		return "", fmt.Errorf("only one of --text, --file or --gcs-uri may be set")
	}

	switch {
	case in.Text != "":
		return in.Text, nil
	case in.File == "-":
		if in.Stdin == nil {
			return "", fmt.Errorf("stdin is not available")
		}
		data, err := io.ReadAll(in.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	case in.File != "":
		data, err := os.ReadFile(in.File)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", in.File, err)
		}
		return string(data), nil
	default:
		if in.GCS == nil {
			return "", fmt.Errorf("no GCS reader configured for %s", in.GCSURI)
		}
		return in.GCS.ReadText(ctx, in.GCSURI)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeCategories prints the closed vocabularies the extractor may emit.
func writeCategories(w io.Writer) {
	types := make([]string, 0, len(domain.TransactionTypes()))
	for _, t := range domain.TransactionTypes() {
		types = append(types, string(t))
	}
	fmt.Fprintf(w, "Transaction types: %s\n", strings.Join(types, ", "))

	fmt.Fprintln(w, "\nExpense categories:")
	for _, c := range domain.ExpenseCategories() {
		fmt.Fprintf(w, "  %-20s %s\n", c, c.DisplayName())
	}

	fmt.Fprintln(w, "\nIncome categories:")
	for _, c := range domain.IncomeCategories() {
		fmt.Fprintf(w, "  %-20s %s\n", c, c.DisplayName())
	}
}
