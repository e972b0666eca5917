package model

import (
	"strings"
	"time"
)

// StaleAfter is how old the summary's reported reading may be before the
// dashboard flags the data as stale.
const StaleAfter = 30 * time.Minute

// backendTimeLayouts covers the timestamp shapes the backend emits: pandas
// index strings and RFC 3339 variants.
var backendTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseBackendTime parses a backend timestamp string. Naive timestamps are
// interpreted as UTC.
func ParseBackendTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range backendTimeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// IsStale reports whether a reported reading timestamp is older than
// StaleAfter relative to now. Absent or unparseable timestamps are treated
// as not stale: the summary is the newest known truth, so the check fails
// open. Callers recompute this on every render; it is never cached.
func IsStale(reported string, now time.Time) bool {
	ts, ok := ParseBackendTime(reported)
	if !ok {
		return false
	}
	return now.Sub(ts) > StaleAfter
}

// Stale evaluates the staleness signal for the current summary snapshot.
func (m *Model) Stale(now time.Time) bool {
	if m.Summary == nil {
		return false
	}
	return IsStale(m.Summary.DataTimestamp, now)
}
