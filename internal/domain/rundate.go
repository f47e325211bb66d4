package domain

import (
	"fmt"
	"strings"
	"time"
)

// RunKeyAll is the sentinel run key meaning "the entire historical corpus".
const RunKeyAll = "all"

// DateLayout is the layout of single-day run keys.
const DateLayout = "2006-01-02"

// RunDate selects what a batch run operates on: one calendar day or the whole corpus.
type RunDate struct {
	All bool
	Day time.Time // UTC midnight; zero when All is set
}

// AllDates returns the whole-corpus run date.
func AllDates() RunDate {
	return RunDate{All: true}
}

// OnDay returns the run date for the calendar day containing t.
func OnDay(t time.Time) RunDate {
	return RunDate{Day: TruncateDay(t)}
}

// ParseRunDate parses "all", "YYYY-MM-DD", or "" (today per now).
func ParseRunDate(s string, now time.Time) (RunDate, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return OnDay(now.UTC()), nil
	case RunKeyAll:
		return AllDates(), nil
	}
	day, err := time.Parse(DateLayout, s)
	if err != nil {
		return RunDate{}, fmt.Errorf("parse run date %q: %w", s, err)
	}
	return OnDay(day), nil
}

// Key returns the storage key: "all" or "YYYY-MM-DD".
func (r RunDate) Key() string {
	if r.All {
		return RunKeyAll
	}
	return r.Day.Format(DateLayout)
}

// String implements fmt.Stringer.
func (r RunDate) String() string {
	return r.Key()
}

// TruncateDay returns UTC midnight of t's calendar day in t's own location.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
