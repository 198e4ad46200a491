package utils

import (
	"strings"
	"time"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04"
)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// FormatDate formats a column value as YYYY-MM-DD. Strings are cut to their date part.
func FormatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(layoutDate)
	case string:
		t = strings.TrimSpace(t)
		if len(t) >= len(layoutDate) {
			return t[:len(layoutDate)]
		}
		return t
	}
	return ""
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM" in UTC.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(layoutDateTime)
}
