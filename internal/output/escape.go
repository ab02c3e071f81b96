package output

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const escapeCharacter = '\\'

// EscapeName makes an entry name safe for a single tree line. Backslashes and
// control characters are written as Go-style escapes; everything else is kept.
func EscapeName(name string) string {
	if !needsEscaping(name) {
		return name
	}
	var builder strings.Builder
	for index := 0; index < len(name); {
		character, width := utf8.DecodeRuneInString(name[index:])
		switch {
		case character == escapeCharacter:
			builder.WriteString(`\\`)
		case character == '\n':
			builder.WriteString(`\n`)
		case character == '\r':
			builder.WriteString(`\r`)
		case character == '\t':
			builder.WriteString(`\t`)
		case isControl(character):
			fmt.Fprintf(&builder, `\x%02x`, character)
		default:
			builder.WriteString(name[index : index+width])
		}
		index += width
	}
	return builder.String()
}

// UnescapeName reverses EscapeName.
func UnescapeName(escaped string) (string, error) {
	if !strings.ContainsRune(escaped, escapeCharacter) {
		return escaped, nil
	}
	var builder strings.Builder
	remaining := escaped
	for len(remaining) > 0 {
		if remaining[0] != escapeCharacter {
			next := strings.IndexByte(remaining, escapeCharacter)
			if next < 0 {
				next = len(remaining)
			}
			builder.WriteString(remaining[:next])
			remaining = remaining[next:]
			continue
		}
		value, multibyte, tail, err := strconv.UnquoteChar(remaining, 0)
		if err != nil {
			return "", fmt.Errorf("invalid escape in %q: %w", escaped, err)
		}
		if multibyte {
			builder.WriteRune(value)
		} else {
			builder.WriteByte(byte(value))
		}
		remaining = tail
	}
	return builder.String(), nil
}

func needsEscaping(name string) bool {
	for index := 0; index < len(name); index++ {
		if name[index] == escapeCharacter || isControl(rune(name[index])) {
			return true
		}
	}
	return false
}

func isControl(character rune) bool {
	return character < 0x20 || character == 0x7f
}
