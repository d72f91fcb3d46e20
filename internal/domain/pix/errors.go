package pix

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("pix: invalid request")
	ErrEncoding         = errors.New("pix: invalid text encoding")
	ErrMalformed        = errors.New("pix: malformed payload")
	ErrChecksumMismatch = errors.New("pix: checksum mismatch")
)

// ValidationError reports a request field that cannot be encoded. It matches
// ErrValidation under errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("pix: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// EncodingError reports input text that is not valid UTF-8. It matches
// ErrEncoding under errors.Is.
type EncodingError struct {
	Field string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("pix: %s: not valid UTF-8", e.Field)
}

func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}
