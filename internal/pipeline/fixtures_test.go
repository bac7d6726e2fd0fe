package pipeline

import "github.com/dvloznov/transactions-viewer/internal/domain"

func record(id int, state, date, code, description string) domain.Record {
	return domain.Record{
		"id":    float64(id),
		"state": state,
		"date":  date,
		"operationAmount": map[string]interface{}{
			"amount":   "100.00",
			"currency": map[string]interface{}{"name": code, "code": code},
		},
		"description": description,
	}
}

func fixtureRecords() []domain.Record {
	return []domain.Record{
		record(939719570, "EXECUTED", "2018-06-30T02:08:58.425572", "USD", "Перевод организации"),
		record(142264268, "EXECUTED", "2019-07-03T18:35:29.512364", "RUB", "Перевод со счета на счет"),
		record(873106923, "CANCELED", "2018-09-12T21:27:25.241689", "RUB", "Оплата услуг"),
		record(594226727, "CANCELED", "2018-10-14T08:21:33.419441", "RUB", "Перевод организации"),
	}
}

func ids(records []domain.Record) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i], _ = r["id"].(float64)
	}
	return out
}

func equalIDs(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
