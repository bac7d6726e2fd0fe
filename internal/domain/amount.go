package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNoAmount is returned when a record carries no usable operationAmount.amount.
var ErrNoAmount = errors.New("record has no amount")

// DecimalAmount parses operationAmount.amount, which sources store either as a
// string or as a number.
func (r Record) DecimalAmount() (decimal.Decimal, error) {
	v, ok := r.Amount()
	if !ok || v == nil {
		return decimal.Zero, ErrNoAmount
	}
	return ParseDecimal(v)
}

// ParseDecimal converts a loosely typed amount value to a decimal.
func ParseDecimal(v interface{}) (decimal.Decimal, error) {
	switch n := v.(type) {
	case string:
		s := strings.TrimSpace(n)
		if s == "" || s == NotSpecified {
			return decimal.Zero, ErrNoAmount
		}
		d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
		if err != nil {
			return decimal.Zero, fmt.Errorf("ParseDecimal: %q: %w", n, err)
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(n), nil
	case float32:
		return decimal.NewFromFloat32(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero, fmt.Errorf("ParseDecimal: %q: %w", n, err)
		}
		return d, nil
	case decimal.Decimal:
		return n, nil
	default:
		return decimal.Zero, fmt.Errorf("ParseDecimal: unsupported amount type %T", v)
	}
}
