package utils

import (
	"fmt"
	"math"
	"strings"
)

const bytesPerMegabyte = 1024 * 1024

// FormatFileSize converts a byte length into a human-readable lower-case unit string.
func FormatFileSize(bytes int64) string {
	if bytes < 0 {
		return "0b"
	}
	units := []string{"b", "kb", "mb", "gb", "tb", "pb"}
	value := float64(bytes)
	unitIndex := 0
	for value >= 1024 && unitIndex < len(units)-1 {
		value /= 1024
		unitIndex++
	}
	if unitIndex == 0 {
		return fmt.Sprintf("%db", bytes)
	}
	if value < 10 {
		formatted := fmt.Sprintf("%.1f", value)
		formatted = strings.TrimSuffix(formatted, ".0")
		return formatted + units[unitIndex]
	}
	return fmt.Sprintf("%.0f%s", value, units[unitIndex])
}

// MegabytesToBytes converts a fractional megabyte limit into bytes.
// Non-positive input yields zero, meaning no limit.
func MegabytesToBytes(megabytes float64) int64 {
	if megabytes <= 0 {
		return 0
	}
	return int64(math.Round(megabytes * bytesPerMegabyte))
}
