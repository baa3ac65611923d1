// Package period parses the date bounds accepted on the command line.
package period

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvertedRange = errors.New("range start is after range end")
)

const (
	dayLayout      = "2006-01-02"
	dayTimeLayout  = "2006-01-02 15:04:05"
	supportedHints = "YYYY-MM-DD, YYYY-MM-DD HH:MM:SS, today, yesterday, last week, last month"
)

// Range is an inclusive interval of Unix timestamps.
type Range struct {
	From int64
	To   int64
}

// Parse resolves an absolute or relative date in the local time zone.
func Parse(value string, now time.Time) (time.Time, error) {
	s := strings.ToLower(strings.TrimSpace(value))
	loc := now.Location()

	switch s {
	case "":
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	case "today":
		return startOfDay(now), nil
	case "yesterday":
		return startOfDay(now.AddDate(0, 0, -1)), nil
	case "last week":
		return now.AddDate(0, 0, -7), nil
	case "last month":
		return now.AddDate(0, -1, 0), nil
	}

	if t, err := time.ParseInLocation(dayLayout, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(dayTimeLayout, s, loc); err == nil {
		return t, nil
	}

	t, err := dateparse.ParseIn(s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (supported: %s)", ErrInvalidDate, value, supportedHints)
	}
	return t, nil
}

// NewRange parses both bounds. An empty to means now.
func NewRange(from, to string, now time.Time) (Range, error) {
	start, err := Parse(from, now)
	if err != nil {
		return Range{}, err
	}

	end := now
	if strings.TrimSpace(to) != "" {
		end, err = Parse(to, now)
		if err != nil {
			return Range{}, err
		}
	}

	if start.After(end) {
		return Range{}, fmt.Errorf("%w: %s > %s", ErrInvertedRange,
			start.Format(dayTimeLayout), end.Format(dayTimeLayout))
	}

	return Range{From: start.Unix(), To: end.Unix()}, nil
}

func (r Range) String() string {
	return fmt.Sprintf("%s - %s",
		time.Unix(r.From, 0).Format(dayTimeLayout),
		time.Unix(r.To, 0).Format(dayTimeLayout))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
