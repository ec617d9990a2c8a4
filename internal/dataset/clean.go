package dataset

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// The raw dump stores several numeric columns as prose ("36 months",
// "10+ years"). These parsers recover the numbers the way the upstream
// export writes them.

var reLeadingInt = regexp.MustCompile(`(\d+)`)

// ParseTerm extracts the installment count from values like "36 months"
// or a bare "60".
func ParseTerm(s string) (int, error) {
	m := reLeadingInt.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, fmt.Errorf("no digits in term %q", s)
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("term %q: %w", s, err)
	}
	return n, nil
}

// ErrUnknown is returned by ParseEmploymentLength for the export's
// explicit unknown markers ("n/a"); callers treat it as a null.
var ErrUnknown = fmt.Errorf("value marked unknown")

// ParseEmploymentLength converts the export's employment prose to whole
// years: "10+ years" -> 10, "< 1 year" -> 0, "3 years" -> 3.
func ParseEmploymentLength(s string) (int, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	switch t {
	case "", "n/a", "na", "none":
		return 0, ErrUnknown
	}
	if strings.HasPrefix(t, "<") {
		return 0, nil
	}
	m := reLeadingInt.FindString(t)
	if m == "" {
		return 0, fmt.Errorf("no digits in employment length %q", s)
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("employment length %q: %w", s, err)
	}
	return n, nil
}

// dateLayouts ordered by how often each shows up in the dump. The
// slash layout is day-first, matching the upstream export.
var dateLayouts = []string{
	"2006-01-02",
	"Jan-2006",
	"Jan-06",
	"02/01/2006",
	time.RFC3339,
}

// ParseDate parses a calendar date in any accepted layout, UTC.
func ParseDate(s string) (time.Time, error) {
	t := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.ParseInLocation(layout, t, time.UTC); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
