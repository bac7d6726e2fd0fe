package pipeline

import (
	"strings"

	"github.com/dvloznov/transactions-viewer/internal/domain"
)

// CountByCategory counts, for each category keyword, the records whose
// description contains it. Matching is case-sensitive. Keywords with no
// matches are left out of the result.
func CountByCategory(records []domain.Record, categories []string) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		desc, _ := r.String(domain.FieldDescription)
		for _, c := range categories {
			if strings.Contains(desc, c) {
				counts[c]++
			}
		}
	}
	return counts
}
