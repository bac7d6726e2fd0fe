package bigquery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/transactions-viewer/internal/domain"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
)

// TableRef names a fully qualified table.
type TableRef struct {
	ProjectID string
	DatasetID string
	TableID   string
}

func (t TableRef) String() string {
	return fmt.Sprintf("%s.%s.%s", t.ProjectID, t.DatasetID, t.TableID)
}

func (t TableRef) handle(client *bigquery.Client) *bigquery.Table {
	return client.DatasetInProject(t.ProjectID, t.DatasetID).Table(t.TableID)
}

// EnsureTableWithClient creates the export table, day-partitioned on
// exported_ts, when it does not exist yet.
func EnsureTableWithClient(ctx context.Context, client *bigquery.Client, ref TableRef) error {
	table := ref.handle(client)

	_, err := table.Metadata(ctx)
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusNotFound {
		return fmt.Errorf("EnsureTable: reading metadata of %s: %w", ref, err)
	}

	schema, err := RecordSchema()
	if err != nil {
		return fmt.Errorf("EnsureTable: %w", err)
	}

	md := &bigquery.TableMetadata{
		Schema:      schema,
		Description: "Transactions exported from the viewer",
		TimePartitioning: &bigquery.TimePartitioning{
			Type:  bigquery.DayPartitioningType,
			Field: "exported_ts",
		},
	}
	if err := table.Create(ctx, md); err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict {
			return nil // created concurrently
		}
		return fmt.Errorf("EnsureTable: creating %s: %w", ref, err)
	}
	return nil
}

// InsertRecordsWithClient streams rows into the export table using the provided client.
func InsertRecordsWithClient(ctx context.Context, client *bigquery.Client, ref TableRef, rows []*RecordRow) error {
	if len(rows) == 0 {
		return nil
	}

	inserter := ref.handle(client).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertRecords: inserting rows: %w", err)
	}
	return nil
}

// ListRecordsByExportWithClient reads back the rows of one export ordered by date.
func ListRecordsByExportWithClient(ctx context.Context, client *bigquery.Client, ref TableRef, exportID string) ([]*RecordRow, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
			export_id,
			record_id,
			state,
			occurred_at,
			raw_date,
			description,
			amount,
			currency_code,
			currency_name,
			from_masked,
			to_masked,
			exported_ts
		FROM `+"`%s`"+`
		WHERE export_id = @export_id
		ORDER BY occurred_at, record_id
	`, ref))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "export_id", Value: exportID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListRecordsByExport: query read: %w", err)
	}

	var rows []*RecordRow
	for {
		var r RecordRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListRecordsByExport: iter next: %w", err)
		}
		rows = append(rows, &r)
	}

	return rows, nil
}

// ToRows maps a batch of records, stamping them all with the same export time.
func ToRows(exportID string, records []domain.Record, exportedAt time.Time) []*RecordRow {
	rows := make([]*RecordRow, 0, len(records))
	for i, rec := range records {
		rows = append(rows, ToRow(exportID, i, rec, exportedAt))
	}
	return rows
}
