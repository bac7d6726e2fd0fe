package loader

import "github.com/dvloznov/transactions-viewer/internal/domain"

// nestAmount moves the flat amount and currency columns of a tabular row into
// operationAmount, the shape JSON sources use. Absent columns and missing cells become
// domain.NotSpecified.
func nestAmount(rec domain.Record) domain.Record {
	rec[domain.FieldOperationAmount] = map[string]interface{}{
		domain.FieldAmount: popOr(rec, domain.ColumnAmount),
		domain.FieldCurrency: map[string]interface{}{
			domain.FieldCurrencyName: popOr(rec, domain.ColumnCurrencyName),
			domain.FieldCurrencyCode: popOr(rec, domain.ColumnCurrencyCode),
		},
	}
	return rec
}

func popOr(rec domain.Record, key string) interface{} {
	v, ok := rec[key]
	delete(rec, key)
	if !ok || v == nil {
		return domain.NotSpecified
	}
	return v
}
