package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newCheckExporter(console *bytes.Buffer) *Exporter[CheckRow] {
	e := New(CheckSchema, console)
	e.now = func() time.Time { return fixedNow }
	return e
}

func sampleChecks() []CheckRow {
	return []CheckRow{
		{PostText: "Привет, \"мир\"\nвторая строка", GroupName: "Клуб | API", GroupID: 1, Likes: 10, Reposts: 2},
		{PostText: "", GroupName: "Empty", GroupID: 2},
	}
}

func TestCSV_BOMAndHeader(t *testing.T) {
	e := newCheckExporter(&bytes.Buffer{})

	for _, records := range [][]CheckRow{nil, sampleChecks()} {
		out, err := e.Render(records, FormatCSV)
		require.NoError(t, err)

		if !strings.HasPrefix(out, "\ufeff") {
			t.Fatal("CSV should start with a byte-order mark")
		}

		rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, "\ufeff"))).ReadAll()
		require.NoError(t, err)

		if diff := cmp.Diff([]string{"post_text", "group_name", "group_id", "likes", "reposts"}, rows[0]); diff != "" {
			t.Errorf("Unexpected header (-want +got):\n%s", diff)
		}
		if len(rows) != len(records)+1 {
			t.Errorf("Expected %d rows, got %d", len(records)+1, len(rows))
		}
	}
}

func TestCSV_QuotesEmbeddedDelimiters(t *testing.T) {
	out, err := newCheckExporter(&bytes.Buffer{}).CSV(sampleChecks())
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, "\ufeff"))).ReadAll()
	require.NoError(t, err)

	if rows[1][0] != "Привет, \"мир\"\nвторая строка" {
		t.Errorf("CSV should round-trip the full text, got %q", rows[1][0])
	}
}

func TestJSON_RoundTripKeepsUnicode(t *testing.T) {
	records := sampleChecks()
	out, err := newCheckExporter(&bytes.Buffer{}).Render(records, FormatJSON)
	require.NoError(t, err)

	if !strings.Contains(out, "Привет") {
		t.Error("Cyrillic text should appear unescaped")
	}
	if strings.Contains(out, `\u`) {
		t.Error("JSON should not contain unicode escapes")
	}

	var decoded []CheckRow
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	if diff := cmp.Diff(records, decoded); diff != "" {
		t.Errorf("Round trip mismatch (-want +got):\n%s", diff)
	}

	var keyed []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &keyed))
	if _, ok := keyed[0]["group_name"]; !ok {
		t.Error("JSON records should use explicit keys")
	}
}

func TestJSON_EmptyIsArray(t *testing.T) {
	out, err := newCheckExporter(&bytes.Buffer{}).JSON(nil)
	require.NoError(t, err)
	if out != "[]" {
		t.Errorf("Expected empty array, got %q", out)
	}
}

func TestMarkdown_EscapesAndCollapses(t *testing.T) {
	out := newCheckExporter(&bytes.Buffer{}).Markdown(sampleChecks())

	if !strings.HasPrefix(out, "# Latest posts in VK groups\n\n**Generated:** 2024-05-01 12:00:00\n") {
		t.Errorf("Unexpected preamble:\n%s", out)
	}
	if !strings.Contains(out, "**Total groups:** 2") {
		t.Error("Markdown should end with a total count")
	}
	if !strings.Contains(out, "| (no text) |") {
		t.Error("Empty text should use the placeholder")
	}

	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "| ") || strings.HasPrefix(line, "| Post") {
			continue
		}
		cells := strings.Split(strings.ReplaceAll(line, `\|`, ""), "|")
		// Leading and trailing pipes plus one per column boundary.
		if len(cells) != len(CheckSchema.Columns)+2 {
			t.Errorf("Row has an unescaped pipe: %q", line)
		}
	}

	if !strings.Contains(out, `Клуб \| API`) {
		t.Error("Pipe in group name should be escaped")
	}
	if !strings.Contains(out, "Привет, \"мир\" вторая строка") {
		t.Error("Newlines inside text should collapse to spaces")
	}
}

func TestMarkdown_Empty(t *testing.T) {
	out := newCheckExporter(&bytes.Buffer{}).Markdown(nil)

	if !strings.HasSuffix(out, "No data to display.\n") {
		t.Errorf("Expected no-data sentence, got:\n%s", out)
	}
	if strings.Contains(out, "|") {
		t.Error("Empty document should not contain a table")
	}
}

func TestMarkdown_TruncatesBody(t *testing.T) {
	long := strings.Repeat("слово ", 20)
	out := newCheckExporter(&bytes.Buffer{}).Markdown([]CheckRow{{PostText: long, GroupName: "g"}})

	if strings.Contains(out, strings.TrimSpace(long)) {
		t.Error("Long body should be truncated")
	}
	if !strings.Contains(out, "...") {
		t.Error("Truncated body should end with an ellipsis")
	}
}

func TestTable_WritesToConsole(t *testing.T) {
	var console bytes.Buffer
	out, err := newCheckExporter(&console).Render(sampleChecks(), FormatTable)
	require.NoError(t, err)

	if out != "" {
		t.Errorf("Table render should return empty text, got %q", out)
	}
	if !strings.Contains(console.String(), "GROUP NAME") && !strings.Contains(console.String(), "Group name") {
		t.Errorf("Console should contain the table header, got:\n%s", console.String())
	}
	if !strings.Contains(console.String(), "(no text)") {
		t.Error("Console table should use the placeholder for empty text")
	}
}

func TestRender_InvalidFormat(t *testing.T) {
	_, err := newCheckExporter(&bytes.Buffer{}).Render(nil, Format("xml"))
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Expected ErrInvalidFormat, got %v", err)
	}
}

func TestAlbumSchema_CSVDates(t *testing.T) {
	created := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	desc := "Описание"
	records := []AlbumRow{
		{ID: 1, Title: "Альбом с \"кавычками\" и, запятыми", Description: &desc, Size: 10, Created: &created, OwnerID: -12345678},
	}

	out, err := New(AlbumSchema(time.UTC), &bytes.Buffer{}).CSV(records)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, "\ufeff"))).ReadAll()
	require.NoError(t, err)

	want := []string{"1", "Альбом с \"кавычками\" и, запятыми", "Описание", "10", "2023-01-01 00:00:00", "", "-12345678"}
	if diff := cmp.Diff(want, rows[1]); diff != "" {
		t.Errorf("Unexpected album row (-want +got):\n%s", diff)
	}
}

func TestAlbumRow_JSONNulls(t *testing.T) {
	out, err := New(AlbumSchema(time.UTC), &bytes.Buffer{}).JSON([]AlbumRow{{ID: -6, Title: "Wall"}})
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	for _, key := range []string{"description", "created", "updated"} {
		value, ok := decoded[0][key]
		if !ok || value != nil {
			t.Errorf("Expected %s to be null, got %v (present=%t)", key, value, ok)
		}
	}
	if _, ok := decoded[0]["thumb_src"]; ok {
		t.Error("thumb_src should be omitted when empty")
	}
}

func TestParseFormat(t *testing.T) {
	for input, want := range map[string]Format{"": FormatTable, "JSON": FormatJSON, " csv ": FormatCSV, "markdown": FormatMarkdown} {
		got, err := ParseFormat(input)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", input, got, err, want)
		}
	}

	if _, err := ParseFormat("md"); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Expected ErrInvalidFormat for md, got %v", err)
	}
}

func TestResolveFileFormat(t *testing.T) {
	cases := []struct {
		path      string
		requested Format
		want      Format
	}{
		{"out/report.json", FormatCSV, FormatJSON},
		{"report.CSV", FormatJSON, FormatCSV},
		{"report.md", FormatTable, FormatMarkdown},
		{"report.markdown", FormatJSON, FormatMarkdown},
		{"report.txt", FormatTable, FormatCSV},
		{"report", FormatJSON, FormatJSON},
	}

	for _, c := range cases {
		if got := ResolveFileFormat(c.path, c.requested); got != c.want {
			t.Errorf("ResolveFileFormat(%q, %q) = %q, want %q", c.path, c.requested, got, c.want)
		}
	}
}

func TestWriteFile_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.csv")

	n, err := WriteFile(path, "data")
	require.NoError(t, err)
	if n != 4 {
		t.Errorf("Expected 4 bytes written, got %d", n)
	}

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	if string(content) != "data" {
		t.Errorf("Unexpected file content: %q", content)
	}
}

func TestPrepareOutput(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, PrepareOutput(""))
	require.NoError(t, PrepareOutput("out.csv"))

	nested := filepath.Join(dir, "x", "y", "out.json")
	require.NoError(t, PrepareOutput(nested))
	info, err := os.Stat(filepath.Dir(nested))
	require.NoError(t, err)
	if !info.IsDir() {
		t.Errorf("Expected %s to be a directory", filepath.Dir(nested))
	}

	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	require.Error(t, PrepareOutput(filepath.Join(blocker, "sub", "out.json")))
}
