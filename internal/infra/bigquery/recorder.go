// Package bigquery stores extraction run audit rows in BigQuery.
package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/option"

	"github.com/dvloznov/finance-docproc/internal/extraction"
)

// RunRecorder is the BigQuery implementation of extraction.RunRecorder.
// It holds a shared client for the lifetime of the process.
type RunRecorder struct {
	client    *bigquery.Client
	datasetID string
}

var _ extraction.RunRecorder = (*RunRecorder)(nil)

// NewRunRecorder creates a client for projectID. credentialsFile is optional;
// without it Application Default Credentials are used.
func NewRunRecorder(ctx context.Context, projectID, datasetID, credentialsFile string) (*RunRecorder, error) {
	client, err := NewClient(ctx, projectID, credentialsFile)
	if err != nil {
		return nil, err
	}
	return &RunRecorder{client: client, datasetID: datasetID}, nil
}

// NewClient creates a BigQuery client, optionally authenticated with a credentials file.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*bigquery.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("NewClient: project id is required")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewClient: creating client: %w", err)
	}
	return client, nil
}

// RecordRun inserts run into the extraction_runs table.
func (r *RunRecorder) RecordRun(ctx context.Context, run extraction.Run) error {
	return InsertExtractionRunWithClient(ctx, r.client, r.datasetID, NewExtractionRunRow(run))
}

// Client exposes the underlying client, e.g. for EnsureExtractionRunsTable.
func (r *RunRecorder) Client() *bigquery.Client {
	return r.client
}

// Dataset is the dataset runs are written to.
func (r *RunRecorder) Dataset() string {
	return r.datasetID
}

// Close closes the BigQuery client connection.
func (r *RunRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
