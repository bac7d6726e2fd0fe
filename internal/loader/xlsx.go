package loader

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dvloznov/transactions-viewer/internal/domain"
	"github.com/xuri/excelize/v2"
)

// decodeXLSX reads the first worksheet of the workbook, whichever sheet is
// active. The first row holds the headers and every later row is zipped
// against them by position.
func decodeXLSX(r io.Reader) ([]domain.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: opening workbook: %v", ErrInvalidFormat, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %v", ErrInvalidFormat, sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	var records []domain.Record
	for i, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		rowNum := i + 2

		rec := make(domain.Record, len(header)+1)
		for col, name := range header {
			if name == "" {
				continue
			}
			rec[name] = cellValue(f, sheet, row, col, rowNum)
		}
		records = append(records, nestAmount(rec))
	}

	return records, nil
}

// cellValue returns nil for blank cells, float64 for numeric cells and the
// text otherwise.
func cellValue(f *excelize.File, sheet string, row []string, col, rowNum int) interface{} {
	if col >= len(row) || row[col] == "" {
		return nil
	}
	raw := row[col]

	axis, err := excelize.CoordinatesToCellName(col+1, rowNum)
	if err != nil {
		return raw
	}
	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return raw
	}
	if typ == excelize.CellTypeUnset || typ == excelize.CellTypeNumber {
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return n
		}
	}
	return raw
}
