package pipeline

import (
	"reflect"
	"testing"

	"github.com/dvloznov/transactions-viewer/internal/domain"
)

func TestFilterByStatus(t *testing.T) {
	records := fixtureRecords()
	records = append(records,
		domain.Record{"id": float64(1), "state": nil},
		domain.Record{"id": float64(2)},
		domain.Record{"id": float64(3), "state": 42},
		domain.Record{"id": float64(4), "state": "executed"},
		domain.Record{"id": float64(5), "state": ""},
	)

	tests := []struct {
		name   string
		status string
		want   []float64
	}{
		{"lower case input selects upper case state", "executed", []float64{939719570, 142264268, 4}},
		{"upper case input", "CANCELED", []float64{873106923, 594226727}},
		{"no partial match", "exec", []float64{}},
		{"unknown status", "pending", []float64{}},
		{"empty status does not select empty state", "", []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByStatus(records, tt.status)
			if !equalIDs(ids(got), tt.want) {
				t.Errorf("FilterByStatus(%q) ids = %v, want %v", tt.status, ids(got), tt.want)
			}
		})
	}
}

func TestFilterByStatus_Idempotent(t *testing.T) {
	once := FilterByStatus(fixtureRecords(), "executed")
	twice := FilterByStatus(once, "executed")

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("filtering twice changed the result: %v vs %v", once, twice)
	}
}

func TestFilterByStatus_DoesNotMutateInput(t *testing.T) {
	records := fixtureRecords()
	before := ids(records)

	_ = FilterByStatus(records, "canceled")

	if !equalIDs(ids(records), before) {
		t.Errorf("input order changed: %v, want %v", ids(records), before)
	}
}

func TestFilterByCurrency(t *testing.T) {
	rub := record(1, "EXECUTED", "2019-01-01", "RUB", "a")
	usd := record(2, "EXECUTED", "2019-01-01", "USD", "b")
	lower := record(3, "EXECUTED", "2019-01-01", "rub", "c")
	noAmount := domain.Record{"id": float64(4)}
	flatAmount := domain.Record{"id": float64(5), "operationAmount": "100 RUB"}
	noCode := domain.Record{"id": float64(6), "operationAmount": map[string]interface{}{"currency": map[string]interface{}{}}}

	records := []domain.Record{rub, usd, lower, noAmount, flatAmount, noCode}

	tests := []struct {
		code string
		want []float64
	}{
		{"RUB", []float64{1, 3}},
		{"rub", []float64{1, 3}},
		{"USD", []float64{2}},
		{"EUR", []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got := FilterByCurrency(records, tt.code)
			if !equalIDs(ids(got), tt.want) {
				t.Errorf("FilterByCurrency(%q) ids = %v, want %v", tt.code, ids(got), tt.want)
			}
		})
	}
}

func TestSearchDescription(t *testing.T) {
	records := []domain.Record{
		{"id": float64(1), "description": "Перевод организации"},
		{"id": float64(2), "description": "Оплата услуг"},
		{"id": float64(3), "description": "Оплата (по счету) 1+1"},
		{"id": float64(4)},
		{"id": float64(5), "description": nil},
		{"id": float64(6), "description": ""},
	}

	tests := []struct {
		name  string
		query string
		want  []float64
	}{
		{"lower case cyrillic", "перевод", []float64{1}},
		{"upper case cyrillic", "ПЕРЕВОД", []float64{1}},
		{"metacharacters are literal", "(по счету) 1+1", []float64{3}},
		{"dot is not a wildcard", "Оплата.", []float64{}},
		{"empty query keeps string descriptions", "", []float64{1, 2, 3, 6}},
		{"no match", "вклад", []float64{}},
		{"cp1251 bytes match nothing", "\xef\xe5\xf0\xe5\xe2\xee\xe4", []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SearchDescription(records, tt.query)
			if !equalIDs(ids(got), tt.want) {
				t.Errorf("SearchDescription(%q) ids = %v, want %v", tt.query, ids(got), tt.want)
			}
		})
	}
}
