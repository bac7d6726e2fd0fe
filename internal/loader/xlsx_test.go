package loader

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dvloznov/transactions-viewer/internal/domain"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "transactions_excel.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return path
}

func TestLoad_XLSX(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"id", "state", "date", "amount", "currency_name", "currency_code", "from", "to", "description"},
		{650703, "EXECUTED", "2023-09-05T11:30:32Z", 16210.5, "Sol", "PEN", "Счет 58803664561298323391", "Счет 39745660563456619397", "Перевод организации"},
		{3598919, "PENDING", "2020-12-06T23:00:58Z", 29740, "Peso", "COP", nil, "Discover 0720428384694643", "Перевод с карты на карту"},
	})

	got := newTestLoader(Options{}).Load(context.Background(), path, FormatXLSX)
	if len(got) != 2 {
		t.Fatalf("Load returned %d records, want 2", len(got))
	}

	first := got[0]
	if first["id"] != float64(650703) {
		t.Errorf("id = %v (%T), want 650703 as float64", first["id"], first["id"])
	}
	if first["state"] != "EXECUTED" || first["date"] != "2023-09-05T11:30:32Z" {
		t.Errorf("unexpected first record: %v", first)
	}
	assertOperationAmount(t, first, 16210.5, "Sol", "PEN")

	second := got[1]
	if v, ok := second["from"]; !ok || v != nil {
		t.Errorf("blank cell from = %v (%v), want nil", v, ok)
	}
	if second["description"] != "Перевод с карты на карту" {
		t.Errorf("description = %v", second["description"])
	}
	assertOperationAmount(t, second, float64(29740), "Peso", "COP")
}

func TestLoad_XLSXMissingColumnsAndShortRows(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"id", "state", "amount", "description"},
		{1, "CANCELED", 5},
	})

	got := newTestLoader(Options{}).Load(context.Background(), path, FormatXLSX)
	if len(got) != 1 {
		t.Fatalf("Load returned %d records, want 1", len(got))
	}
	if v, ok := got[0]["description"]; !ok || v != nil {
		t.Errorf("description = %v (%v), want nil", v, ok)
	}
	assertOperationAmount(t, got[0], float64(5), domain.NotSpecified, domain.NotSpecified)
}

func TestLoad_XLSXHeaderOnly(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"id", "state", "amount"},
	})

	got, err := newTestLoader(Options{}).TryLoad(context.Background(), path, FormatXLSX)
	if err != nil {
		t.Fatalf("TryLoad unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("TryLoad = %v, want empty slice", got)
	}
}

func TestLoad_XLSXEmptyWorkbook(t *testing.T) {
	path := writeWorkbook(t, nil)

	got := newTestLoader(Options{}).Load(context.Background(), path, FormatXLSX)
	if got == nil || len(got) != 0 {
		t.Errorf("Load = %v, want empty slice", got)
	}
}

func TestLoad_XLSXCorrupt(t *testing.T) {
	path := writeFile(t, "transactions_excel.xlsx", "this is not a zip archive")
	l := newTestLoader(Options{})

	_, err := l.TryLoad(context.Background(), path, FormatXLSX)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("TryLoad error = %v, want ErrInvalidFormat", err)
	}
	if got := l.Load(context.Background(), path, FormatXLSX); len(got) != 0 {
		t.Errorf("Load returned %d records, want 0", len(got))
	}
}

func TestLoad_XLSX_ReadsFirstSheetWhenAnotherIsActive(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	first := []interface{}{"id", "state", "description"}
	if err := f.SetSheetRow("Sheet1", "A1", &first); err != nil {
		t.Fatalf("SetSheetRow: %v", err)
	}
	row := []interface{}{1, "EXECUTED", "Перевод организации"}
	if err := f.SetSheetRow("Sheet1", "A2", &row); err != nil {
		t.Fatalf("SetSheetRow: %v", err)
	}

	idx, err := f.NewSheet("Summary")
	if err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	summary := []interface{}{"total"}
	if err := f.SetSheetRow("Summary", "A1", &summary); err != nil {
		t.Fatalf("SetSheetRow: %v", err)
	}
	f.SetActiveSheet(idx)

	path := filepath.Join(t.TempDir(), "transactions_excel.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}

	got := newTestLoader(Options{}).Load(context.Background(), path, FormatXLSX)
	if len(got) != 1 {
		t.Fatalf("Load returned %d records, want 1", len(got))
	}
	if got[0]["description"] != "Перевод организации" {
		t.Errorf("read wrong sheet: %v", got[0])
	}
}
