// Package sanitize keeps text safe for the display link. The receiving device
// reads single bytes, so everything sent must be plain ASCII: escape codes and
// control characters are stripped from labels and any non-ASCII character in
// the JSON payload is written as a \uXXXX escape.
package sanitize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

var (
	// ANSI escape codes: \x1b[...m (SGR sequences)
	ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

	// Console notes embedded by CI log annotators: \x1b_...\x07
	consoleNotePattern = regexp.MustCompile(`\x1b_[^\x07]*\x07`)
)

// StripANSI removes ANSI escape codes and embedded console notes.
func StripANSI(s string) string {
	s = consoleNotePattern.ReplaceAllString(s, "")
	s = ansiPattern.ReplaceAllString(s, "")
	return s
}

// Label cleans a display string: escape codes and control characters are
// removed and surrounding whitespace trimmed. Printable non-ASCII text is kept;
// it is escaped at encoding time.
func Label(s string) string {
	s = StripANSI(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// ASCIIJSON marshals v as compact JSON containing only ASCII bytes.
func ASCIIJSON(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json: %w", err)
	}
	return EscapeNonASCII(data), nil
}

// EscapeNonASCII rewrites every non-ASCII rune of a JSON document as a \uXXXX
// escape (a surrogate pair above the BMP). Non-ASCII bytes can only occur
// inside JSON strings, where such escapes are valid. Invalid UTF-8 becomes U+FFFD.
func EscapeNonASCII(data []byte) []byte {
	if isASCII(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data) + 16)
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		if r < utf8.RuneSelf {
			buf.WriteByte(byte(r))
			continue
		}
		if r > 0xFFFF {
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&buf, `\u%04x\u%04x`, hi, lo)
			continue
		}
		fmt.Fprintf(&buf, `\u%04x`, r)
	}
	return buf.Bytes()
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
