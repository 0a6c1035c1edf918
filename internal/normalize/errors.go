package normalize

import (
	"errors"
	"strings"
)

// ErrorKind is the error_type label reported for extraction failures.
const ErrorKind = "ExtractionError"

var (
	// ErrMissingBody means no strategy found a candidate body at all.
	ErrMissingBody = errors.New("missing body")
	// ErrMissingText means a body was found but its text field is empty.
	ErrMissingText = errors.New("missing text field")
	// ErrInvalidBody means a string body could not be decoded as JSON.
	ErrInvalidBody = errors.New("request body is not valid JSON")
)

// ExtractionError describes why no request text could be extracted.
type ExtractionError struct {
	Err      error
	Detail   string
	Strategy string
	Keys     []string
}

func (e *ExtractionError) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if len(e.Keys) > 0 {
		b.WriteString(" (event keys: ")
		b.WriteString(strings.Join(e.Keys, ", "))
		b.WriteString(")")
	}
	return b.String()
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Kind returns the error_type label.
func (e *ExtractionError) Kind() string { return ErrorKind }

// IsMissingText reports whether err is the user-facing empty-text failure.
func IsMissingText(err error) bool {
	return errors.Is(err, ErrMissingText)
}
