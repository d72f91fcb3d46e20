package pix

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFields splits s into consecutive tag-length-value fields. Template
// values are returned unparsed; call ParseFields on them again to descend.
func ParseFields(s string) ([]Field, error) {
	var fields []Field
	for rest := s; rest != ""; {
		if len(rest) < 4 {
			return nil, fmt.Errorf("%w: truncated header %q", ErrMalformed, rest)
		}
		tag, size := rest[:2], rest[2:4]
		if !isTag(tag) || !isTag(size) {
			return nil, fmt.Errorf("%w: bad header %q", ErrMalformed, rest[:4])
		}
		n, _ := strconv.Atoi(size)
		if len(rest)-4 < n {
			return nil, fmt.Errorf("%w: tag %s declares %d bytes, %d left", ErrMalformed, tag, n, len(rest)-4)
		}
		fields = append(fields, Field{Tag: tag, Value: rest[4 : 4+n]})
		rest = rest[4+n:]
	}
	return fields, nil
}

// Parse decodes a payload and checks its trailing CRC.
func Parse(payload string) ([]Field, error) {
	fields, err := ParseFields(payload)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformed)
	}
	last := fields[len(fields)-1]
	if last.Tag != TagCRC || len(last.Value) != 4 {
		return nil, fmt.Errorf("%w: missing trailing CRC field", ErrMalformed)
	}
	want := Checksum(payload[:len(payload)-4])
	if !strings.EqualFold(last.Value, want) {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrChecksumMismatch, last.Value, want)
	}
	return fields, nil
}

// Verify reports whether payload is well formed and its CRC matches.
func Verify(payload string) error {
	_, err := Parse(payload)
	return err
}

// Lookup returns the value of the first field carrying tag.
func Lookup(fields []Field, tag string) (string, bool) {
	for _, f := range fields {
		if f.Tag == tag {
			return f.Value, true
		}
	}
	return "", false
}
