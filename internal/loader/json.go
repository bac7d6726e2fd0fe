package loader

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dvloznov/transactions-viewer/internal/domain"
)

// decodeJSON accepts only a top-level array of objects. One bad element rejects the file.
func decodeJSON(r io.Reader) ([]domain.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading JSON: %w", err)
	}

	var top interface{}
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	items, ok := top.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: top-level JSON value is %T, want array", ErrInvalidFormat, top)
	}

	records := make([]domain.Record, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: element %d is %T, want object", ErrInvalidFormat, i, item)
		}
		records = append(records, domain.Record(obj))
	}
	return records, nil
}
