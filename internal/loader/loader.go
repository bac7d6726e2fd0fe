package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dvloznov/transactions-viewer/internal/domain"
	"github.com/dvloznov/transactions-viewer/internal/gcs"
	"github.com/dvloznov/transactions-viewer/internal/logger"
	"github.com/rs/zerolog"
)

var (
	// ErrNotFound is returned when the source file does not exist.
	ErrNotFound = errors.New("file does not exist")

	// ErrNotRegularFile is returned when the path names a directory or a special file.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrInvalidFormat is returned when the content cannot be decoded into records.
	ErrInvalidFormat = errors.New("invalid file content")

	// ErrUnsupportedFormat is returned for an unknown format name or extension.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrNoStorage is returned for gs:// paths when no storage service is configured.
	ErrNoStorage = errors.New("no storage service configured for gs:// paths")
)

// Options configure a Loader.
type Options struct {
	// Delimiter separates CSV fields. Zero means comma.
	Delimiter rune

	// Storage fetches gs:// sources. Optional.
	Storage gcs.StorageService
}

// Loader reads transaction records from JSON, CSV and XLSX sources.
type Loader struct {
	log       zerolog.Logger
	delimiter rune
	storage   gcs.StorageService
}

// New creates a Loader that reports through log.
func New(log zerolog.Logger, opts Options) *Loader {
	delim := opts.Delimiter
	if delim == 0 {
		delim = ','
	}
	return &Loader{
		log:       logger.Component(log, "loader"),
		delimiter: delim,
		storage:   opts.Storage,
	}
}

// Load reads records from path and never fails: any problem is logged and
// an empty slice is returned.
func (l *Loader) Load(ctx context.Context, path string, format Format) []domain.Record {
	records, err := l.TryLoad(ctx, path, format)
	if err != nil {
		ev := l.log.Error()
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNotRegularFile) ||
			errors.Is(err, ErrInvalidFormat) || errors.Is(err, ErrUnsupportedFormat) {
			ev = l.log.Warn()
		}
		ev.Err(err).Str("path", path).Str("format", string(format)).Msg("could not load transactions")
		return []domain.Record{}
	}

	l.log.Info().Str("path", path).Str("format", string(format)).Int("count", len(records)).Msg("transactions loaded")
	return records
}

// LoadPath is Load with the format inferred from the extension.
func (l *Loader) LoadPath(ctx context.Context, path string) []domain.Record {
	format, err := FormatFromPath(path)
	if err != nil {
		l.log.Warn().Err(err).Str("path", path).Msg("could not load transactions")
		return []domain.Record{}
	}
	return l.Load(ctx, path, format)
}

// TryLoad reads records from path and reports why a load failed.
// A successful load of a source without data rows returns an empty, non-nil slice.
func (l *Loader) TryLoad(ctx context.Context, path string, format Format) ([]domain.Record, error) {
	var decode func(io.Reader) ([]domain.Record, error)
	switch format {
	case FormatJSON:
		decode = decodeJSON
	case FormatCSV:
		decode = func(r io.Reader) ([]domain.Record, error) { return decodeCSV(r, l.delimiter) }
	case FormatXLSX:
		decode = decodeXLSX
	default:
		return nil, fmt.Errorf("TryLoad: %w: %q", ErrUnsupportedFormat, format)
	}

	rc, err := l.open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("TryLoad: %w", err)
	}
	defer rc.Close()

	records, err := decode(rc)
	if err != nil {
		return nil, fmt.Errorf("TryLoad: %s: %w", path, err)
	}
	if records == nil {
		records = []domain.Record{}
	}
	return records, nil
}

func (l *Loader) open(ctx context.Context, path string) (io.ReadCloser, error) {
	if gcs.IsURI(path) {
		if l.storage == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoStorage, path)
		}
		data, err := l.storage.FetchFromGCS(ctx, path)
		if err != nil {
			return nil, err
		}
		l.log.Debug().
			Str("file", l.storage.ExtractFilenameFromGCSURI(path)).
			Int("bytes", len(data)).
			Msg("fetched source from GCS")
		return io.NopCloser(bytes.NewReader(data)), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
