// Package masks renders card and account numbers in a partially hidden form
// suitable for console output.
package masks

import (
	"strings"

	"github.com/dvloznov/transactions-viewer/internal/logger"
	"github.com/rs/zerolog"
)

// accountLabels mark descriptors that name a bank account rather than a card.
var accountLabels = []string{"счет", "account"}

// CardNumber masks a card number as "XXXX XX** **** XXXX".
func CardNumber(number string) string {
	n := strings.ReplaceAll(number, " ", "")
	return head(n, 4) + " " + between(n, 4, 6) + "** **** " + tail(n, 4)
}

// Account masks an account number as "**XXXX".
func Account(number string) string {
	n := strings.ReplaceAll(number, " ", "")
	return "**" + tail(n, 4)
}

// AccountCard masks the number at the end of a descriptor such as
// "Visa Platinum 7000792289606361" or "Счет 64686473678894779589".
// Descriptors labelled as accounts get the account mask, anything else the card mask.
func AccountCard(descriptor string) string {
	descriptor = strings.TrimSpace(descriptor)
	idx := strings.LastIndex(descriptor, " ")
	if idx < 0 {
		if len(descriptor) > 16 {
			return Account(descriptor)
		}
		return CardNumber(descriptor)
	}

	label, number := descriptor[:idx], descriptor[idx+1:]
	if isAccountLabel(label) {
		return label + " " + Account(number)
	}
	return label + " " + CardNumber(number)
}

func isAccountLabel(label string) bool {
	l := strings.ToLower(label)
	for _, prefix := range accountLabels {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}

func head(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

func tail(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[len(s)-n:]
}

func between(s string, from, to int) string {
	if from >= len(s) {
		return ""
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}

// Masker applies the masks and logs every masked value.
type Masker struct {
	log zerolog.Logger
}

// NewMasker creates a Masker that logs through log.
func NewMasker(log zerolog.Logger) *Masker {
	return &Masker{log: logger.Component(log, "masks")}
}

// CardNumber masks a card number.
func (m *Masker) CardNumber(number string) string {
	masked := CardNumber(number)
	m.log.Info().Str("masked", masked).Msg("masked card number")
	return masked
}

// Account masks an account number.
func (m *Masker) Account(number string) string {
	masked := Account(number)
	m.log.Info().Str("masked", masked).Msg("masked account number")
	return masked
}

// AccountCard masks a card or account descriptor.
func (m *Masker) AccountCard(descriptor string) string {
	masked := AccountCard(descriptor)
	m.log.Info().Str("masked", masked).Msg("masked descriptor")
	return masked
}
