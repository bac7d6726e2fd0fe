package domain

// Field names of a transaction record.
const (
	FieldID              = "id"
	FieldState           = "state"
	FieldDate            = "date"
	FieldDescription     = "description"
	FieldOperationAmount = "operationAmount"
	FieldAmount          = "amount"
	FieldCurrency        = "currency"
	FieldCurrencyName    = "name"
	FieldCurrencyCode    = "code"
	FieldFrom            = "from"
	FieldTo              = "to"
)

// Flat column names used by tabular sources before normalization.
const (
	ColumnAmount       = "amount"
	ColumnCurrencyName = "currency_name"
	ColumnCurrencyCode = "currency_code"
)

// NotSpecified is substituted for amount and currency values absent from tabular rows.
const NotSpecified = "Не указана"

// Record is one bank transaction as loaded from a source file.
// No schema is enforced; fields may be absent or carry unexpected types.
type Record map[string]interface{}

// Lookup walks nested objects along path. It reports false when any segment
// is missing or an intermediate value is not an object.
func (r Record) Lookup(path ...string) (interface{}, bool) {
	if len(path) == 0 {
		return nil, false
	}

	var cur interface{} = map[string]interface{}(r)
	for _, key := range path {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// String returns the field value when it is a string.
func (r Record) String(key string) (string, bool) {
	v, ok := r[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// CurrencyCode returns operationAmount.currency.code when it is a string.
func (r Record) CurrencyCode() (string, bool) {
	v, ok := r.Lookup(FieldOperationAmount, FieldCurrency, FieldCurrencyCode)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// CurrencyName returns operationAmount.currency.name when it is a string.
func (r Record) CurrencyName() (string, bool) {
	v, ok := r.Lookup(FieldOperationAmount, FieldCurrency, FieldCurrencyName)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Amount returns operationAmount.amount as stored (string, number or nil).
func (r Record) Amount() (interface{}, bool) {
	return r.Lookup(FieldOperationAmount, FieldAmount)
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case Record:
		return m, true
	default:
		return nil, false
	}
}
