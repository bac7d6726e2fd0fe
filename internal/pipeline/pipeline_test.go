package pipeline

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/dvloznov/transactions-viewer/internal/domain"
)

// mockStage is a mock implementation of Stage
type mockStage struct {
	name      string
	applyFunc func(records []domain.Record) ([]domain.Record, error)
}

func (m *mockStage) Name() string { return m.name }

func (m *mockStage) Apply(records []domain.Record) ([]domain.Record, error) {
	return m.applyFunc(records)
}

func TestPipeline_ZeroStagesIsIdentity(t *testing.T) {
	records := fixtureRecords()

	got, err := NewPipeline().Run(records)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Errorf("Run() = %v, want input unchanged", got)
	}
}

func TestPipeline_RunsStagesInOrder(t *testing.T) {
	var order []string
	stage := func(name string) Stage {
		return &mockStage{
			name: name,
			applyFunc: func(records []domain.Record) ([]domain.Record, error) {
				order = append(order, name)
				return records[1:], nil
			},
		}
	}

	got, err := NewPipeline(stage("first"), stage("second")).Run(fixtureRecords())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Join(order, ",") != "first,second" {
		t.Errorf("stage order = %v", order)
	}
	if len(got) != 2 {
		t.Errorf("Run() returned %d records, want 2", len(got))
	}
}

func TestPipeline_StageFailure(t *testing.T) {
	boom := errors.New("boom")
	called := false

	p := NewPipeline(
		StatusStage{Status: "executed"},
		&mockStage{name: "broken", applyFunc: func([]domain.Record) ([]domain.Record, error) { return nil, boom }},
		&mockStage{name: "after", applyFunc: func(r []domain.Record) ([]domain.Record, error) { called = true; return r, nil }},
	)

	_, err := p.Run(fixtureRecords())
	if !errors.Is(err, boom) {
		t.Fatalf("Run error = %v, want wrapped boom", err)
	}
	if !strings.Contains(err.Error(), "pipeline stage 2 (broken) failed") {
		t.Errorf("error message = %q", err.Error())
	}
	if called {
		t.Error("stage after the failure was executed")
	}
}

func TestNewReportPipeline(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		wantStages []string
		wantIDs    []float64
	}{
		{
			name:       "status only",
			opts:       Options{Status: "canceled"},
			wantStages: []string{"status"},
			wantIDs:    []float64{873106923, 594226727},
		},
		{
			name:       "status and descending sort",
			opts:       Options{Status: "canceled", Sort: true},
			wantStages: []string{"status", "sort"},
			wantIDs:    []float64{594226727, 873106923},
		},
		{
			name:       "rub only",
			opts:       Options{Status: "EXECUTED", Currency: "RUB"},
			wantStages: []string{"status", "currency"},
			wantIDs:    []float64{142264268},
		},
		{
			name: "everything",
			opts: Options{
				Status: "canceled", Sort: true, Ascending: true,
				Currency: "rub", Search: true, SearchQuery: "перевод",
			},
			wantStages: []string{"status", "sort", "currency", "search"},
			wantIDs:    []float64{594226727},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewReportPipeline(tt.opts)

			var names []string
			for _, s := range p.Stages() {
				names = append(names, s.Name())
			}
			if !reflect.DeepEqual(names, tt.wantStages) {
				t.Errorf("stages = %v, want %v", names, tt.wantStages)
			}

			got, err := p.Run(fixtureRecords())
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if !equalIDs(ids(got), tt.wantIDs) {
				t.Errorf("ids = %v, want %v", ids(got), tt.wantIDs)
			}
		})
	}
}

func TestNewReportPipeline_SortFailureSurfaces(t *testing.T) {
	records := append(fixtureRecords(), domain.Record{"id": float64(1), "state": "EXECUTED", "date": "n/a"})

	_, err := NewReportPipeline(Options{Status: "executed", Sort: true}).Run(records)

	var dateErr *DateError
	if !errors.As(err, &dateErr) {
		t.Fatalf("Run error = %v, want *DateError", err)
	}
	if dateErr.Value != "n/a" {
		t.Errorf("DateError.Value = %v", dateErr.Value)
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"EXECUTED", StatusExecuted, false},
		{" canceled ", StatusCanceled, false},
		{"Pending", StatusPending, false},
		{"done", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStatus(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCountByCategory(t *testing.T) {
	records := []domain.Record{
		{"description": "Перевод организации"},
		{"description": "Перевод с карты на карту"},
		{"description": "Открытие вклада"},
		{"description": "перевод на вклад"},
		{"id": float64(7)},
	}

	got := CountByCategory(records, []string{"Перевод", "вклад", "Оплата"})
	want := map[string]int{"Перевод": 2, "вклад": 2}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("CountByCategory() = %v, want %v", got, want)
	}
}
