package pipeline

import (
	"fmt"

	"github.com/dvloznov/transactions-viewer/internal/domain"
)

// Stage is a single transformation in a report pipeline.
type Stage interface {
	Name() string
	Apply(records []domain.Record) ([]domain.Record, error)
}

// StatusStage keeps records with the given state.
type StatusStage struct {
	Status string
}

func (s StatusStage) Name() string { return "status" }

func (s StatusStage) Apply(records []domain.Record) ([]domain.Record, error) {
	return FilterByStatus(records, s.Status), nil
}

// SortStage orders records by date.
type SortStage struct {
	Ascending bool
}

func (s SortStage) Name() string { return "sort" }

func (s SortStage) Apply(records []domain.Record) ([]domain.Record, error) {
	return SortByDate(records, s.Ascending)
}

// CurrencyStage keeps records in the given currency.
type CurrencyStage struct {
	Code string
}

func (s CurrencyStage) Name() string { return "currency" }

func (s CurrencyStage) Apply(records []domain.Record) ([]domain.Record, error) {
	return FilterByCurrency(records, s.Code), nil
}

// SearchStage keeps records whose description contains the query.
type SearchStage struct {
	Query string
}

func (s SearchStage) Name() string { return "search" }

func (s SearchStage) Apply(records []domain.Record) ([]domain.Record, error) {
	return SearchDescription(records, s.Query), nil
}

// Pipeline executes a sequence of stages in order.
type Pipeline struct {
	stages []Stage
}

// NewPipeline creates a new pipeline with the given stages.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Stages returns the configured stages.
func (p *Pipeline) Stages() []Stage {
	return p.stages
}

// Run applies all stages sequentially. With no stages the input is returned unchanged.
func (p *Pipeline) Run(records []domain.Record) ([]domain.Record, error) {
	out := records
	for i, stage := range p.stages {
		next, err := stage.Apply(out)
		if err != nil {
			return nil, fmt.Errorf("pipeline stage %d (%s) failed: %w", i+1, stage.Name(), err)
		}
		out = next
	}
	return out, nil
}

// Options select the optional stages of the report pipeline.
type Options struct {
	Status string

	Sort      bool
	Ascending bool

	// Currency keeps only records in this code when non-empty.
	Currency string

	Search      bool
	SearchQuery string
}

// NewReportPipeline creates the standard pipeline: status filter, then the
// optional date sort, currency filter and description search.
func NewReportPipeline(opts Options) *Pipeline {
	stages := []Stage{StatusStage{Status: opts.Status}}
	if opts.Sort {
		stages = append(stages, SortStage{Ascending: opts.Ascending})
	}
	if opts.Currency != "" {
		stages = append(stages, CurrencyStage{Code: opts.Currency})
	}
	if opts.Search {
		stages = append(stages, SearchStage{Query: opts.SearchQuery})
	}
	return NewPipeline(stages...)
}
