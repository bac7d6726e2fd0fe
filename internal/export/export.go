// Package export writes a selection of transaction records to an external store.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/dvloznov/transactions-viewer/internal/domain"
	"github.com/dvloznov/transactions-viewer/internal/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Sink persists one export batch.
type Sink interface {
	Write(ctx context.Context, exportID string, records []domain.Record) error
}

// Exporter assigns export IDs and hands batches to a Sink.
type Exporter struct {
	sink  Sink
	log   zerolog.Logger
	newID func() string
}

// NewExporter creates an Exporter writing to sink.
func NewExporter(sink Sink, log zerolog.Logger) *Exporter {
	return &Exporter{
		sink:  sink,
		log:   logger.Component(log, "export"),
		newID: uuid.NewString,
	}
}

// Export writes records under a fresh export ID and returns the ID.
// An empty selection is not written but still gets an ID.
func (e *Exporter) Export(ctx context.Context, records []domain.Record) (string, error) {
	exportID := e.newID()
	log := e.log.With().Str("export_id", exportID).Logger()

	if len(records) == 0 {
		log.Info().Msg("nothing to export")
		return exportID, nil
	}

	start := time.Now()
	if err := e.sink.Write(ctx, exportID, records); err != nil {
		log.Error().Err(err).Int("count", len(records)).Msg("export failed")
		return exportID, fmt.Errorf("Export: %w", err)
	}

	log.Info().
		Int("count", len(records)).
		Dur("elapsed", time.Since(start)).
		Msg("records exported")
	return exportID, nil
}

// MultiSink writes every batch to each sink in turn and stops at the first failure.
type MultiSink []Sink

func (m MultiSink) Write(ctx context.Context, exportID string, records []domain.Record) error {
	for i, s := range m {
		if err := s.Write(ctx, exportID, records); err != nil {
			return fmt.Errorf("sink %d: %w", i+1, err)
		}
	}
	return nil
}
