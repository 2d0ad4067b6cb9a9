// Package loader adapts provider CSV exports into domain record streams.
// Each loader tolerates the header variations seen across operators, drops
// service provider broadcast rows, and reports per-file load statistics
// instead of failing the whole file on one bad row.
package loader

import (
	"strconv"
	"strings"
	"time"
)

// Stats counts what a single file load did. Skipped rows are rows the
// loader understood but rejected (provider messages, unparseable fields);
// they are logged, not fatal.
type Stats struct {
	Rows     int
	Loaded   int
	Skipped  int
	Provider int
}

// providerPrefixes mark operator broadcast senders (balance alerts,
// promotions). Rows to or from these are noise for behavioral analysis.
var providerPrefixes = []string{
	"AA-", "AD-", "AW-", "AX-", "BP-", "BW-", "BZ-", "ID-",
	"IM-", "JZ-", "TM-", "VF-", "VK-", "VM-",
}

// IsProviderMessage reports whether a raw party string is an operator
// broadcast sender rather than a subscriber number.
func IsProviderMessage(raw string) bool {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	for _, p := range providerPrefixes {
		if strings.HasPrefix(upper, p) {
			return true
		}
	}
	return false
}

// headerIndex maps normalized column names to their position. Lookup is
// case-insensitive and ignores surrounding whitespace.
type headerIndex map[string]int

func indexHeader(header []string) headerIndex {
	idx := make(headerIndex, len(header))
	for i, h := range header {
		idx[strings.ToUpper(strings.TrimSpace(h))] = i
	}
	return idx
}

// col returns the value of the first matching column name, or "".
func (h headerIndex) col(row []string, names ...string) string {
	for _, name := range names {
		if i, ok := h[name]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
	}
	return ""
}

func (h headerIndex) has(names ...string) bool {
	for _, name := range names {
		if _, ok := h[name]; ok {
			return true
		}
	}
	return false
}

// timestampLayouts covers the date and time formats seen in provider
// exports. Tried in order; first parse wins.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"02/01/2006 15:04:05",
	"02-01-2006 15:04:05",
	time.RFC3339,
}

func parseTimestamp(date, clock string) (time.Time, bool) {
	combined := strings.TrimSpace(date)
	if clock != "" {
		combined += " " + strings.TrimSpace(clock)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, combined); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseInt(raw string) (int64, bool) {
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		// Some exports render numeric columns as floats.
		f, ferr := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if ferr != nil {
			return 0, false
		}
		return int64(f), true
	}
	return n, true
}

func parseFloat(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
