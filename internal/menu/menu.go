// Package menu implements the interactive console session of the viewer.
package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dvloznov/transactions-viewer/internal/domain"
	"github.com/dvloznov/transactions-viewer/internal/loader"
	"github.com/dvloznov/transactions-viewer/internal/logger"
	"github.com/dvloznov/transactions-viewer/internal/pipeline"
	"github.com/dvloznov/transactions-viewer/internal/report"
	"github.com/rs/zerolog"
)

// Messages printed by the session.
const (
	Greeting          = "Hello! Welcome to the bank transactions viewer."
	UnsupportedSource = "This file type is not supported yet."
	LoadFailed        = "Could not load transactions. Check the file and try again."
)

// RecordLoader loads records and never fails; an unusable source yields no records.
type RecordLoader interface {
	Load(ctx context.Context, path string, format loader.Format) []domain.Record
}

// Source is one entry of the source menu.
type Source struct {
	Label  string
	Path   string
	Format loader.Format
}

// DefaultSources returns the JSON, CSV and XLSX menu entries in menu order.
func DefaultSources(jsonPath, csvPath, xlsxPath string) []Source {
	return []Source{
		{Label: "JSON", Path: jsonPath, Format: loader.FormatJSON},
		{Label: "CSV", Path: csvPath, Format: loader.FormatCSV},
		{Label: "XLSX", Path: xlsxPath, Format: loader.FormatXLSX},
	}
}

// Session is one interactive run over an input and an output stream.
type Session struct {
	loader  RecordLoader
	sources []Source
	report  report.Options

	// Currency kept by the "only rubles" question.
	reference string

	in  *bufio.Scanner
	out io.Writer
	log zerolog.Logger
}

// New creates a Session reading answers from in and writing prompts to out.
func New(log zerolog.Logger, ld RecordLoader, sources []Source, opts report.Options, in io.Reader, out io.Writer) *Session {
	ref := opts.Reference
	if ref == "" {
		ref = "RUB"
	}
	return &Session{
		loader:    ld,
		sources:   sources,
		report:    opts,
		reference: ref,
		in:        bufio.NewScanner(in),
		out:       out,
		log:       logger.Component(log, "menu"),
	}
}

// Run drives the session until a report is printed or the input ends.
// End of input is not an error. A sort over an unparseable date is.
func (s *Session) Run(ctx context.Context) error {
	records, ok, err := s.chooseSource(ctx)
	if err != nil || !ok {
		return err
	}

	status, ok, err := s.chooseStatus()
	if err != nil || !ok {
		return err
	}

	byStatus, err := pipeline.NewPipeline(pipeline.StatusStage{Status: status}).Run(records)
	if err != nil {
		return fmt.Errorf("Run: %w", err)
	}
	s.printf("Operations filtered by status %q. Found %d transactions.\n", strings.ToUpper(status), len(byStatus))
	if len(byStatus) == 0 {
		s.println(report.NoMatches)
		return nil
	}

	opts := pipeline.Options{Status: status}

	answer, ok, err := s.ask("Sort operations by date? (yes/no): ")
	if err != nil || !ok {
		return err
	}
	if isYes(answer) {
		order, ok, err := s.ask("Sort ascending or descending? (asc/desc): ")
		if err != nil || !ok {
			return err
		}
		opts.Sort = true
		opts.Ascending = !isDescending(order)
	}

	answer, ok, err = s.ask(fmt.Sprintf("Show only %s transactions? (yes/no): ", s.reference))
	if err != nil || !ok {
		return err
	}
	if isYes(answer) {
		opts.Currency = s.reference
	}

	answer, ok, err = s.ask("Filter transactions by a word in the description? (yes/no): ")
	if err != nil || !ok {
		return err
	}
	if isYes(answer) {
		query, ok, err := s.ask("Enter the search string: ")
		if err != nil || !ok {
			return err
		}
		opts.Search = true
		opts.SearchQuery = query
	}

	selected, err := pipeline.NewReportPipeline(opts).Run(records)
	if err != nil {
		s.log.Error().Err(err).Msg("report pipeline failed")
		return fmt.Errorf("Run: %w", err)
	}

	if len(selected) > 0 {
		s.println("Printing the final list of transactions...")
	}
	return report.Render(ctx, s.out, selected, s.report)
}

// chooseSource prompts until a source loads with at least one record.
func (s *Session) chooseSource(ctx context.Context) ([]domain.Record, bool, error) {
	s.println(Greeting)
	for {
		s.println("Choose a menu item:")
		for i, src := range s.sources {
			s.printf("%d. Load transactions from the %s file\n", i+1, src.Label)
		}

		choice, ok, err := s.ask("User: ")
		if err != nil || !ok {
			return nil, false, err
		}

		src, found := s.source(choice)
		if !found {
			s.println(UnsupportedSource)
			continue
		}
		s.printf("Selected the %s file for processing.\n", src.Label)

		records := s.loader.Load(ctx, src.Path, src.Format)
		if len(records) == 0 {
			s.log.Warn().Str("path", src.Path).Msg("source yielded no transactions")
			s.println(LoadFailed)
			continue
		}
		s.printf("Loaded %d transactions.\n", len(records))
		return records, true, nil
	}
}

func (s *Session) chooseStatus() (string, bool, error) {
	names := make([]string, len(pipeline.ValidStatuses))
	for i, v := range pipeline.ValidStatuses {
		names[i] = strings.ToUpper(v)
	}
	prompt := fmt.Sprintf("Enter the status to filter by (%s): ", strings.Join(names, ", "))

	for {
		answer, ok, err := s.ask(prompt)
		if err != nil || !ok {
			return "", false, err
		}
		status, err := pipeline.ParseStatus(answer)
		if err == nil {
			return status, true, nil
		}
		s.printf("Status %q is not available.\n", strings.TrimSpace(answer))
	}
}

func (s *Session) source(choice string) (Source, bool) {
	choice = strings.TrimSpace(choice)
	for i, src := range s.sources {
		if choice == fmt.Sprint(i+1) {
			return src, true
		}
	}
	return Source{}, false
}

// ask prints prompt and reads one trimmed line. It reports false at end of input.
func (s *Session) ask(prompt string) (string, bool, error) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", false, fmt.Errorf("ask: reading input: %w", err)
		}
		s.println("")
		return "", false, nil
	}
	return strings.TrimSpace(s.in.Text()), true, nil
}

func (s *Session) println(msg string) {
	fmt.Fprintln(s.out, msg)
}

func (s *Session) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "yes", "y", "да", "д":
		return true
	}
	return false
}

func isDescending(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "desc", "descending", "d", "по убыванию", "убывание":
		return true
	}
	return false
}
