package bigquery

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"
)

const extractionRunsTable = "extraction_runs"

// InsertExtractionRunWithClient streams a single row into <dataset>.extraction_runs.
func InsertExtractionRunWithClient(ctx context.Context, client *bigquery.Client, datasetID string, row *ExtractionRunRow) error {
	inserter := client.Dataset(datasetID).Table(extractionRunsTable).Inserter()
	if err := inserter.Put(ctx, row); err != nil {
		return fmt.Errorf("InsertExtractionRun: inserting row: %w", err)
	}
	return nil
}

// EnsureExtractionRunsTable creates <dataset>.extraction_runs from the row schema,
// partitioned by day on started_ts. It reports whether the table was created.
func EnsureExtractionRunsTable(ctx context.Context, client *bigquery.Client, datasetID string) (bool, error) {
	schema, err := bigquery.InferSchema(ExtractionRunRow{})
	if err != nil {
		return false, fmt.Errorf("EnsureExtractionRunsTable: inferring schema: %w", err)
	}

	table := client.Dataset(datasetID).Table(extractionRunsTable)
	err = table.Create(ctx, &bigquery.TableMetadata{
		Name:        extractionRunsTable,
		Description: "One row per call to the document extraction model.",
		Schema:      schema,
		TimePartitioning: &bigquery.TimePartitioning{
			Type:  bigquery.DayPartitioningType,
			Field: "started_ts",
		},
	})
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict {
			return false, nil
		}
		return false, fmt.Errorf("EnsureExtractionRunsTable: creating table: %w", err)
	}
	return true, nil
}
