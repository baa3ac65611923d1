package feed

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

const ellipsis = "..."

// SingleLine normalizes s to NFC and collapses every whitespace run,
// newlines included, into a single space.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// DisplayWidth counts wide and fullwidth runes as two columns.
func DisplayWidth(s string) int {
	total := 0
	for _, r := range s {
		total += runeWidth(r)
	}
	return total
}

// Truncate cuts s to at most limit display columns and appends an ellipsis
// when anything was removed.
func Truncate(s string, limit int) string {
	if limit <= 0 || DisplayWidth(s) <= limit {
		return s
	}

	var b strings.Builder
	used := 0
	for _, r := range s {
		w := runeWidth(r)
		if used+w > limit {
			break
		}
		b.WriteRune(r)
		used += w
	}

	return strings.TrimRight(b.String(), " ") + ellipsis
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}
