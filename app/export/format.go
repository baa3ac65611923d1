package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

var ErrInvalidFormat = errors.New("invalid format")

var formats = []Format{FormatTable, FormatJSON, FormatCSV, FormatMarkdown}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatTable, nil
	}
	for _, known := range formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (allowed: table, json, csv, markdown)", ErrInvalidFormat, s)
}

// ResolveFileFormat picks the format for a file target. A recognized
// extension wins over the requested format; a table falls back to CSV.
func ResolveFileFormat(path string, requested Format) Format {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "json":
		return FormatJSON
	case "csv":
		return FormatCSV
	case "md", "markdown":
		return FormatMarkdown
	}

	if requested == FormatTable || requested == "" {
		return FormatCSV
	}
	return requested
}

// PrepareOutput creates the parent directories of path. An empty path
// means console output and needs nothing.
func PrepareOutput(path string) error {
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// WriteFile writes content to path, creating missing parent directories.
func WriteFile(path, content string) (int, error) {
	if err := PrepareOutput(path); err != nil {
		return 0, err
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return len(content), nil
}
