package bigquery

import (
	"fmt"
	"math/big"
	"strconv"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/dvloznov/transactions-viewer/internal/domain"
	"github.com/dvloznov/transactions-viewer/internal/masks"
	"github.com/dvloznov/transactions-viewer/internal/pipeline"
)

// RecordRow is one exported transaction in the viewer_exports table.
// Card and account descriptors are stored masked.
type RecordRow struct {
	ExportID string `bigquery:"export_id"` // REQUIRED

	RecordID bigquery.NullString `bigquery:"record_id"` // NULLABLE
	State    bigquery.NullString `bigquery:"state"`     // NULLABLE

	OccurredAt bigquery.NullDateTime `bigquery:"occurred_at"` // NULLABLE, UTC
	RawDate    bigquery.NullString   `bigquery:"raw_date"`    // NULLABLE

	Description bigquery.NullString `bigquery:"description"` // NULLABLE

	Amount       *big.Rat            `bigquery:"amount,nullable"` // NULLABLE NUMERIC
	CurrencyCode bigquery.NullString `bigquery:"currency_code"`   // NULLABLE
	CurrencyName bigquery.NullString `bigquery:"currency_name"`   // NULLABLE

	FromMasked bigquery.NullString `bigquery:"from_masked"` // NULLABLE
	ToMasked   bigquery.NullString `bigquery:"to_masked"`   // NULLABLE

	ExportedTS time.Time `bigquery:"exported_ts"` // REQUIRED

	insertID string
}

// Save implements bigquery.ValueSaver so that retried inserts are deduplicated
// per export and position.
func (r *RecordRow) Save() (map[string]bigquery.Value, string, error) {
	var amount bigquery.Value
	if r.Amount != nil {
		amount = bigquery.NumericString(r.Amount)
	}
	return map[string]bigquery.Value{
		"export_id":     r.ExportID,
		"record_id":     r.RecordID,
		"state":         r.State,
		"occurred_at":   r.OccurredAt,
		"raw_date":      r.RawDate,
		"description":   r.Description,
		"amount":        amount,
		"currency_code": r.CurrencyCode,
		"currency_name": r.CurrencyName,
		"from_masked":   r.FromMasked,
		"to_masked":     r.ToMasked,
		"exported_ts":   r.ExportedTS,
	}, r.insertID, nil
}

// RecordSchema returns the table schema inferred from RecordRow.
func RecordSchema() (bigquery.Schema, error) {
	schema, err := bigquery.InferSchema(RecordRow{})
	if err != nil {
		return nil, fmt.Errorf("RecordSchema: %w", err)
	}
	return schema, nil
}

// ToRow maps a loosely typed record to a RecordRow. Fields that are absent or
// cannot be interpreted become NULL; the raw date string is kept alongside the
// parsed one.
func ToRow(exportID string, index int, rec domain.Record, exportedAt time.Time) *RecordRow {
	row := &RecordRow{
		ExportID:   exportID,
		RecordID:   nullString(idString(rec[domain.FieldID])),
		State:      stringField(rec, domain.FieldState),
		RawDate:    stringField(rec, domain.FieldDate),
		ExportedTS: exportedAt,
		insertID:   exportID + ":" + strconv.Itoa(index),
	}

	if row.RawDate.Valid {
		if t, err := pipeline.ParseDate(row.RawDate.StringVal); err == nil {
			row.OccurredAt = bigquery.NullDateTime{DateTime: civil.DateTimeOf(t.UTC()), Valid: true}
		}
	}

	row.Description = stringField(rec, domain.FieldDescription)

	if d, err := rec.DecimalAmount(); err == nil {
		row.Amount = d.Rat()
	}
	if code, ok := rec.CurrencyCode(); ok && code != domain.NotSpecified {
		row.CurrencyCode = nullString(code)
	}
	if name, ok := rec.CurrencyName(); ok && name != domain.NotSpecified {
		row.CurrencyName = nullString(name)
	}

	if from, ok := rec.String(domain.FieldFrom); ok && from != "" {
		row.FromMasked = nullString(masks.AccountCard(from))
	}
	if to, ok := rec.String(domain.FieldTo); ok && to != "" {
		row.ToMasked = nullString(masks.AccountCard(to))
	}

	return row
}

func stringField(rec domain.Record, key string) bigquery.NullString {
	s, ok := rec.String(key)
	if !ok {
		return bigquery.NullString{}
	}
	return nullString(s)
}

func nullString(s string) bigquery.NullString {
	if s == "" {
		return bigquery.NullString{}
	}
	return bigquery.NullString{StringVal: s, Valid: true}
}

// idString renders numeric IDs without an exponent.
func idString(v interface{}) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		if id == float64(int64(id)) {
			return strconv.FormatInt(int64(id), 10)
		}
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return fmt.Sprint(id)
	}
}
