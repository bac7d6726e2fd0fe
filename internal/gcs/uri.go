package gcs

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Scheme is the prefix of every Cloud Storage URI.
const Scheme = "gs://"

// ErrInvalidURI is returned for URIs that do not name a bucket and an object.
var ErrInvalidURI = errors.New("invalid GCS URI")

// IsURI reports whether s looks like a Cloud Storage URI.
func IsURI(s string) bool {
	return strings.HasPrefix(s, Scheme)
}

// ParseURI splits "gs://bucket/path/to/object" into its bucket and object names.
func ParseURI(uri string) (bucket, object string, err error) {
	if !IsURI(uri) {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}

	trimmed := strings.TrimPrefix(uri, Scheme)
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w (no object path): %s", ErrInvalidURI, uri)
	}

	return parts[0], parts[1], nil
}

// ExtractFilenameFromGCSURI extracts the filename from a GCS URI.
// e.g., "gs://bucket/folder/operations.json" → "operations.json"
func ExtractFilenameFromGCSURI(uri string) string {
	trimmed := strings.TrimPrefix(uri, Scheme)

	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 {
		return trimmed
	}

	return path.Base(parts[1])
}
