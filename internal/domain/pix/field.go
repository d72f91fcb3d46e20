package pix

import (
	"fmt"
	"strings"
)

const maxFieldLen = 99

// Field is one tag-length-value element of the payload. Value holds the raw
// text, or the already formatted children of a template field.
type Field struct {
	Tag   string
	Value string
}

// Encode returns tag + two-digit byte length + value.
func (f Field) Encode() (string, error) {
	return FormatField(f.Tag, f.Value)
}

// FormatField formats a single field. The length header counts UTF-8 bytes and
// has no escape for values of 100 bytes or more, so those are rejected.
func FormatField(tag, value string) (string, error) {
	if !isTag(tag) {
		return "", &ValidationError{Field: "tag " + tag, Reason: "must be two digits"}
	}
	if len(value) > maxFieldLen {
		return "", &ValidationError{
			Field:  "tag " + tag,
			Reason: fmt.Sprintf("value is %d bytes, limit is %d", len(value), maxFieldLen),
		}
	}
	return fmt.Sprintf("%s%02d%s", tag, len(value), value), nil
}

func formatFields(fields ...Field) (string, error) {
	var b strings.Builder
	for _, f := range fields {
		s, err := f.Encode()
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func isTag(s string) bool {
	return len(s) == 2 && isDigit(s[0]) && isDigit(s[1])
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
