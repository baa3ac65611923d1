// Package export renders flat records as console tables, JSON, CSV or
// Markdown documents.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lysyi3m/vk-comb/app/feed"
)

const (
	tableBodyWidth    = 40
	markdownBodyWidth = 50
	emptyBody         = "(no text)"
	utf8BOM           = "\ufeff"
	timestampLayout   = "2006-01-02 15:04:05"
)

var markdownEscaper = strings.NewReplacer(`\`, `\\`, "|", `\|`)

// Column maps a record to one output field. Key names the CSV header,
// Label the table and Markdown header. Body columns hold free text and are
// shortened for display.
type Column[R any] struct {
	Key   string
	Label string
	Body  bool
	Value func(R) string
}

type Schema[R any] struct {
	Title   string
	Noun    string
	Columns []Column[R]
}

func (s Schema[R]) Keys() []string {
	keys := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		keys[i] = c.Key
	}
	return keys
}

// Exporter renders records described by a schema. JSON output uses the
// record's own field tags.
type Exporter[R any] struct {
	schema  Schema[R]
	console io.Writer
	now     func() time.Time
}

func New[R any](schema Schema[R], console io.Writer) *Exporter[R] {
	return &Exporter[R]{schema: schema, console: console, now: time.Now}
}

// Render returns the text form of records. The table format prints to the
// console and returns an empty string.
func (e *Exporter[R]) Render(records []R, format Format) (string, error) {
	switch format {
	case FormatTable, "":
		e.Table(records)
		return "", nil
	case FormatJSON:
		return e.JSON(records)
	case FormatCSV:
		return e.CSV(records)
	case FormatMarkdown:
		return e.Markdown(records), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
}

func (e *Exporter[R]) Table(records []R) {
	t := table.NewWriter()
	t.SetOutputMirror(e.console)

	header := make(table.Row, len(e.schema.Columns))
	for i, c := range e.schema.Columns {
		header[i] = c.Label
	}
	t.AppendHeader(header)

	for _, record := range records {
		row := make(table.Row, len(e.schema.Columns))
		for i, c := range e.schema.Columns {
			value := c.Value(record)
			if c.Body {
				value = displayBody(value, tableBodyWidth)
			}
			row[i] = value
		}
		t.AppendRow(row)
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func (e *Exporter[R]) JSON(records []R) (string, error) {
	if records == nil {
		records = []R{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func (e *Exporter[R]) CSV(records []R) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(e.schema.Keys()); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	row := make([]string, len(e.schema.Columns))
	for _, record := range records {
		for i, c := range e.schema.Columns {
			row[i] = c.Value(record)
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}

	return buf.String(), nil
}

func (e *Exporter[R]) Markdown(records []R) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", e.schema.Title)
	fmt.Fprintf(&b, "**Generated:** %s\n\n", e.now().Format(timestampLayout))

	if len(records) == 0 {
		b.WriteString("No data to display.\n")
		return b.String()
	}

	b.WriteString("## Results\n\n")

	b.WriteString("|")
	for _, c := range e.schema.Columns {
		fmt.Fprintf(&b, " %s |", c.Label)
	}
	b.WriteString("\n|")
	for _, c := range e.schema.Columns {
		b.WriteString(strings.Repeat("-", max(len(c.Label), 3)+2))
		b.WriteString("|")
	}
	b.WriteString("\n")

	for _, record := range records {
		b.WriteString("|")
		for _, c := range e.schema.Columns {
			value := c.Value(record)
			if c.Body {
				value = displayBody(value, markdownBodyWidth)
			} else {
				value = feed.SingleLine(value)
			}
			fmt.Fprintf(&b, " %s |", markdownEscaper.Replace(value))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n**Total %s:** %d\n", e.schema.Noun, len(records))

	return b.String()
}

func displayBody(text string, width int) string {
	text = feed.SingleLine(text)
	if text == "" {
		return emptyBody
	}
	return feed.Truncate(text, width)
}
