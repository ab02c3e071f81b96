package utils

import "unicode/utf8"

// sniffLength defines the maximum number of leading bytes searched for NUL bytes.
const sniffLength = 8000

// IsBinary reports whether the provided byte slice appears to contain binary data.
// Data that is not valid UTF-8, or that carries a NUL byte within the first
// sniffLength bytes, is treated as binary.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	limit := len(data)
	if limit > sniffLength {
		limit = sniffLength
	}
	for _, byteValue := range data[:limit] {
		if byteValue == 0 {
			return true
		}
	}
	return !utf8.Valid(data)
}
