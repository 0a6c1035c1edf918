package upstream

import (
	"errors"
	"strings"
)

// ErrorKind is the error_type label reported for upstream failures.
const ErrorKind = "UpstreamError"

// Error represents a failed or unusable upstream call: transport failure,
// provider API error, timeout, or an empty/malformed transport envelope.
type Error struct {
	Provider   string
	StatusCode int
	RequestID  string
	Message    string
	Err        error
	Timeout    bool
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Provider != "" {
		b.WriteString(e.Provider)
		b.WriteString(": ")
	}
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if msg == "" {
		msg = "upstream request failed"
	}
	b.WriteString(msg)
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Kind returns the error_type label.
func (e *Error) Kind() string { return ErrorKind }

// Wrap returns err as an *Error, keeping the first *Error already in its chain.
func Wrap(provider string, err error) error {
	if err == nil {
		return nil
	}
	var ue *Error
	if errors.As(err, &ue) {
		return ue
	}
	return &Error{Provider: provider, Message: "upstream request failed", Err: err}
}
