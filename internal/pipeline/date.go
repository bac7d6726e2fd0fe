package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dvloznov/transactions-viewer/internal/domain"
)

// ErrMissingDate is wrapped by DateError when a record has no string date.
var ErrMissingDate = errors.New("missing date")

// Accepted date layouts. Fractional seconds are accepted after the seconds
// field even though the layouts do not spell them out.
var dateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DateError reports a record whose date cannot be parsed.
type DateError struct {
	Index int
	Value interface{}
	Err   error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("record %d: invalid date %q: %v", e.Index, fmt.Sprint(e.Value), e.Err)
}

func (e *DateError) Unwrap() error {
	return e.Err
}

// ParseDate parses an ISO-8601 timestamp. A trailing "Z" means UTC and
// timestamps without an offset are taken as UTC.
func ParseDate(s string) (time.Time, error) {
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}

	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// SortByDate returns the records ordered by date. The sort is stable, and
// descending order is the reverse of ascending order for distinct dates.
// Every date is parsed before sorting; the first bad one aborts with a *DateError.
func SortByDate(records []domain.Record, ascending bool) ([]domain.Record, error) {
	type keyed struct {
		at  time.Time
		rec domain.Record
	}

	items := make([]keyed, len(records))
	for i, r := range records {
		raw, ok := r[domain.FieldDate]
		s, isString := raw.(string)
		if !ok || !isString {
			return nil, &DateError{Index: i, Value: raw, Err: ErrMissingDate}
		}
		at, err := ParseDate(s)
		if err != nil {
			return nil, &DateError{Index: i, Value: s, Err: err}
		}
		items[i] = keyed{at: at, rec: r}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if ascending {
			return items[i].at.Before(items[j].at)
		}
		return items[i].at.After(items[j].at)
	})

	out := make([]domain.Record, len(items))
	for i, it := range items {
		out[i] = it.rec
	}
	return out, nil
}
