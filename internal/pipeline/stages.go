package pipeline

import (
	"regexp"
	"strings"

	"github.com/dvloznov/transactions-viewer/internal/domain"
)

// FilterByStatus keeps records whose state equals status, ignoring case.
// Records without a non-empty string state are dropped.
func FilterByStatus(records []domain.Record, status string) []domain.Record {
	want := strings.ToLower(status)

	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		state, ok := r.String(domain.FieldState)
		if ok && state != "" && strings.ToLower(state) == want {
			out = append(out, r)
		}
	}
	return out
}

// FilterByCurrency keeps records whose operationAmount.currency.code equals
// code, ignoring case. Records without the nested code are dropped.
func FilterByCurrency(records []domain.Record, code string) []domain.Record {
	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		c, ok := r.CurrencyCode()
		if ok && strings.EqualFold(c, code) {
			out = append(out, r)
		}
	}
	return out
}

// SearchDescription keeps records whose description contains query as literal
// text, ignoring case. An empty query keeps every record with a string description.
// A query that is not valid UTF-8 matches nothing.
func SearchDescription(records []domain.Record, query string) []domain.Record {
	out := make([]domain.Record, 0, len(records))

	pattern, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		return out
	}

	for _, r := range records {
		desc, ok := r.String(domain.FieldDescription)
		if ok && pattern.MatchString(desc) {
			out = append(out, r)
		}
	}
	return out
}
