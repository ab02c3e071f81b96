package utils

import (
	"time"
)

const (
	timestampLayout     = "2006-01-02 15:04:05"
	fileTimestampLayout = "20060102-150405"
)

// FormatTimestamp returns the provided time formatted using the local time zone
// and a layout that includes date and seconds.
func FormatTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.In(time.Local).Format(timestampLayout)
}

// FormatFileTimestamp returns a lexically sortable timestamp suitable for file names.
func FormatFileTimestamp(value time.Time) string {
	return value.In(time.Local).Format(fileTimestampLayout)
}
