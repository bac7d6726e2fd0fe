package main

import (
	"fmt"
	"strings"
)

// Export destinations accepted by --sink.
const (
	sinkBigQuery = "bigquery"
	sinkMongo    = "mongo"
	sinkGCS      = "gcs"
)

// parseSinks validates a comma-separated destination list and drops duplicates.
func parseSinks(raw string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, name := range splitList(strings.ToLower(raw)) {
		switch name {
		case sinkBigQuery, sinkMongo, sinkGCS:
		case "bq":
			name = sinkBigQuery
		case "mongodb":
			name = sinkMongo
		default:
			return nil, fmt.Errorf("unknown sink %q", name)
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no sink given")
	}
	return out, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
