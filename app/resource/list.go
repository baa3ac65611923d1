// Package resource reads the list of community pages a check runs over.
package resource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
)

// Read returns the screen name of every row: the path of the URL in the
// first column, stripped of slashes and spaces. Rows without a usable path
// are skipped.
func Read(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var names []string
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read resource list: %w", err)
		}
		if len(record) == 0 {
			continue
		}

		name := screenName(record[0])
		if name == "" {
			slog.Debug("Skipping resource row without path", "line", line, "value", record[0])
			continue
		}
		names = append(names, name)
	}

	return names, nil
}

// Load reads the list from a file.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open resource list: %w", err)
	}
	defer f.Close()

	return Read(f)
}

func screenName(raw string) string {
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff"))
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.Trim(u.Path, "/ ")
}
