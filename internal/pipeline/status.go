package pipeline

import (
	"fmt"
	"strings"
)

// Transaction states understood by the status filter.
const (
	StatusExecuted = "executed"
	StatusCanceled = "canceled"
	StatusPending  = "pending"
)

// ValidStatuses lists the accepted states in menu order.
var ValidStatuses = []string{StatusExecuted, StatusCanceled, StatusPending}

// ParseStatus normalizes user input to one of ValidStatuses.
func ParseStatus(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, v := range ValidStatuses {
		if s == v {
			return v, nil
		}
	}
	return "", fmt.Errorf("ParseStatus: unknown status %q", s)
}
