package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dvloznov/transactions-viewer/internal/domain"
)

const utf8BOM = "\ufeff"

func decodeCSV(r io.Reader, delimiter rune) ([]domain.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.Comma = delimiter

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil // Handle empty file gracefully
		}
		return nil, fmt.Errorf("%w: reading CSV header: %v", ErrInvalidFormat, err)
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	var records []domain.Record
	for {
		row, readErr := reader.Read()
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: reading CSV record: %v", ErrInvalidFormat, readErr)
		}

		rec := make(domain.Record, len(header)+1)
		for i, col := range header {
			rec[col] = safeGet(row, i)
		}
		records = append(records, nestAmount(rec))
	}

	return records, nil
}

// safeGet returns nil for cells missing from a short row.
func safeGet(row []string, index int) interface{} {
	if index >= 0 && index < len(row) {
		return row[index]
	}
	return nil
}
