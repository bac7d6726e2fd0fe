// Package report renders selected transactions for the console.
package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dvloznov/transactions-viewer/internal/domain"
	"github.com/dvloznov/transactions-viewer/internal/exchange"
	"github.com/dvloznov/transactions-viewer/internal/masks"
	"github.com/shopspring/decimal"
)

// Placeholders printed for absent fields.
const (
	NotSpecifiedMasc = "Не указано"
	NotSpecifiedFem  = domain.NotSpecified
)

// NoMatches is printed instead of a report for an empty selection.
const NoMatches = "No transactions matched the filter conditions."

// Options tune the report.
type Options struct {
	// Masker masks from/to descriptors. Nil masks without logging.
	Masker *masks.Masker

	// Converter, when set, adds a total in its reference currency.
	Converter exchange.Converter
	Reference string
}

// Render writes the report for records to w.
func Render(ctx context.Context, w io.Writer, records []domain.Record, opts Options) error {
	var buf bytes.Buffer

	if len(records) == 0 {
		fmt.Fprintln(&buf, NoMatches)
		return flush(w, &buf)
	}

	fmt.Fprintf(&buf, "Total operations in selection: %d\n\n", len(records))
	for _, r := range records {
		writeRecord(&buf, r, opts.Masker)
	}

	if opts.Converter != nil {
		total, skipped := Total(ctx, opts.Converter, records)
		ref := opts.Reference
		if ref == "" {
			ref = "RUB"
		}
		fmt.Fprintf(&buf, "Total in %s: %s\n", ref, total.StringFixed(2))
		if skipped > 0 {
			fmt.Fprintf(&buf, "Operations left out of the total: %d\n", skipped)
		}
	}

	return flush(w, &buf)
}

func writeRecord(buf *bytes.Buffer, r domain.Record, m *masks.Masker) {
	date := fieldOr(r, domain.FieldDate, NotSpecifiedFem)
	desc := fieldOr(r, domain.FieldDescription, NotSpecifiedMasc)
	fmt.Fprintf(buf, "%s %s\n", date, desc)

	to := NotSpecifiedMasc
	if s, ok := r.String(domain.FieldTo); ok && s != "" {
		to = maskDescriptor(m, s)
	}
	if s, ok := r.String(domain.FieldFrom); ok && s != "" {
		fmt.Fprintf(buf, "%s -> %s\n", maskDescriptor(m, s), to)
	} else {
		fmt.Fprintf(buf, "-> %s\n", to)
	}

	fmt.Fprintf(buf, "Amount: %s %s\n\n", amountText(r), currencyText(r))
}

// Total sums the record amounts converted to the reference currency. Records
// that cannot be converted are counted in skipped.
func Total(ctx context.Context, conv exchange.Converter, records []domain.Record) (total decimal.Decimal, skipped int) {
	total = decimal.Zero
	for _, r := range records {
		v, err := exchange.RecordAmount(ctx, conv, r)
		if err != nil {
			skipped++
			continue
		}
		total = total.Add(v)
	}
	return total, skipped
}

// RenderCategoryCounts writes one "keyword: count" line per category, in the
// order the categories were given. Categories without matches print zero.
func RenderCategoryCounts(w io.Writer, categories []string, counts map[string]int) error {
	var buf bytes.Buffer
	if len(categories) == 0 {
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		categories = keys
	}
	for _, c := range categories {
		fmt.Fprintf(&buf, "%s: %d\n", c, counts[c])
	}
	return flush(w, &buf)
}

func maskDescriptor(m *masks.Masker, s string) string {
	if m != nil {
		return m.AccountCard(s)
	}
	return masks.AccountCard(s)
}

func fieldOr(r domain.Record, key, placeholder string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return placeholder
	}
	if s, ok := v.(string); ok {
		if s == "" {
			return placeholder
		}
		return s
	}
	return fmt.Sprint(v)
}

// amountText prints string amounts as stored and numbers without exponents.
func amountText(r domain.Record) string {
	v, ok := r.Amount()
	if !ok || v == nil {
		return NotSpecifiedFem
	}
	if s, ok := v.(string); ok {
		if s == "" {
			return NotSpecifiedFem
		}
		return s
	}
	if d, err := domain.ParseDecimal(v); err == nil {
		return d.String()
	}
	return fmt.Sprint(v)
}

func currencyText(r domain.Record) string {
	code, ok := r.CurrencyCode()
	if !ok || code == "" {
		return NotSpecifiedFem
	}
	if code == domain.NotSpecified {
		return code
	}
	return strings.ToUpper(code)
}

func flush(w io.Writer, buf *bytes.Buffer) error {
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("report: writing output: %w", err)
	}
	return nil
}
