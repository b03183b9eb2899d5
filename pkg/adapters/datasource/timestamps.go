package datasource

import (
	"strings"
	"time"
)

// timestampLayouts are tried in order when a driver reports a timestamp
// aggregate as text (SQLite stores timestamps as TEXT).
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CoerceTimestamp converts a scanned aggregate value into a UTC timestamp.
// Returns nil when the value is NULL or not recognizably a timestamp.
func CoerceTimestamp(v any) *time.Time {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		u := t.UTC()
		return &u
	case *time.Time:
		if t == nil {
			return nil
		}
		u := t.UTC()
		return &u
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				u := parsed.UTC()
				return &u
			}
		}
		return nil
	case []byte:
		return CoerceTimestamp(string(t))
	default:
		return nil
	}
}
