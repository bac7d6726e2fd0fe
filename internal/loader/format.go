package loader

import (
	"fmt"
	"path"
	"strings"
)

// Format identifies the encoding of a transactions file.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a format name such as "JSON" or "csv".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("ParseFormat: %w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath infers the format from the file extension of a local path or gs:// URI.
func FormatFromPath(p string) (Format, error) {
	ext := strings.TrimPrefix(path.Ext(strings.ReplaceAll(p, `\`, "/")), ".")
	if ext == "" {
		return "", fmt.Errorf("FormatFromPath: %w: %q has no extension", ErrUnsupportedFormat, p)
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return "", fmt.Errorf("FormatFromPath: %w: %q", ErrUnsupportedFormat, p)
	}
	return f, nil
}
