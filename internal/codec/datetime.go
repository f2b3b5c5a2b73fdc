package codec

import (
	"strings"
	"time"
)

// timeLayouts are tried in order by TryParseTime
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	time.DateOnly,
}

// TryParseTime reports whether s is a date or date-time and returns it.
// Values without a zone are returned in UTC.
func TryParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	// all supported layouts start with a four digit year and a dash
	if len(s) < len(time.DateOnly) || s[4] != '-' {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
