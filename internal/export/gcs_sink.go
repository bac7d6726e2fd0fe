package export

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dvloznov/transactions-viewer/internal/domain"
	"github.com/dvloznov/transactions-viewer/internal/gcs"
	"github.com/dvloznov/transactions-viewer/internal/logger"
)

// GCSSink uploads each batch as a JSON array to <prefix>/<exportID>.json.
// The file uses the same shape the JSON loader reads.
type GCSSink struct {
	storage gcs.StorageService
	prefix  string
}

// NewGCSSink creates a sink below prefix, a gs://bucket[/path] URI.
func NewGCSSink(storage gcs.StorageService, prefix string) (*GCSSink, error) {
	prefix = strings.TrimSuffix(prefix, "/")
	if !gcs.IsURI(prefix) || strings.TrimPrefix(prefix, gcs.Scheme) == "" {
		return nil, fmt.Errorf("NewGCSSink: %w: %s", gcs.ErrInvalidURI, prefix)
	}
	return &GCSSink{storage: storage, prefix: prefix}, nil
}

// ObjectURI returns the destination of an export.
func (s *GCSSink) ObjectURI(exportID string) string {
	return s.prefix + "/" + exportID + ".json"
}

func (s *GCSSink) Write(ctx context.Context, exportID string, records []domain.Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("GCSSink.Write: encoding records: %w", err)
	}
	uri := s.ObjectURI(exportID)
	if err := s.storage.UploadBytes(ctx, uri, data, "application/json"); err != nil {
		return fmt.Errorf("GCSSink.Write: %w", err)
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("uri", uri).
		Int("count", len(records)).
		Msg("export uploaded to GCS")
	return nil
}
