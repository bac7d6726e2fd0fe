package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/transactions-viewer/internal/domain"
)

// RecordSink is the BigQuery implementation of export.Sink. It holds a shared
// client and creates the table on first use.
type RecordSink struct {
	client *bigquery.Client
	ref    TableRef
	now    func() time.Time

	tableReady bool
}

// NewRecordSink creates a BigQuery client for ref.ProjectID.
func NewRecordSink(ctx context.Context, ref TableRef) (*RecordSink, error) {
	if ref.ProjectID == "" {
		return nil, fmt.Errorf("NewRecordSink: project ID is required")
	}
	client, err := bigquery.NewClient(ctx, ref.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("NewRecordSink: creating client: %w", err)
	}
	return NewRecordSinkWithClient(client, ref), nil
}

// NewRecordSinkWithClient wraps an existing client.
func NewRecordSinkWithClient(client *bigquery.Client, ref TableRef) *RecordSink {
	return &RecordSink{client: client, ref: ref, now: time.Now}
}

// Close closes the BigQuery client connection.
func (s *RecordSink) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// EnsureTable creates the export table unless it already exists.
func (s *RecordSink) EnsureTable(ctx context.Context) error {
	if s.tableReady {
		return nil
	}
	if err := EnsureTableWithClient(ctx, s.client, s.ref); err != nil {
		return err
	}
	s.tableReady = true
	return nil
}

// Write ensures the table exists and inserts the records.
func (s *RecordSink) Write(ctx context.Context, exportID string, records []domain.Record) error {
	if err := s.EnsureTable(ctx); err != nil {
		return err
	}
	return InsertRecordsWithClient(ctx, s.client, s.ref, ToRows(exportID, records, s.now().UTC()))
}

// List reads back the rows written under exportID.
func (s *RecordSink) List(ctx context.Context, exportID string) ([]*RecordRow, error) {
	return ListRecordsByExportWithClient(ctx, s.client, s.ref, exportID)
}
