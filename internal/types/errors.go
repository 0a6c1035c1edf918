package types

import "strings"

// ModelOutputErrorKind is the error_type label for unusable model output.
const ModelOutputErrorKind = "ModelOutputError"

// ModelOutputError means the model replied but its payload could not be used:
// the nested JSON did not parse, or required fields were missing or of the
// wrong shape.
type ModelOutputError struct {
	Message string
	Missing []string
	Err     error
}

func (e *ModelOutputError) Error() string {
	msg := e.Message
	if len(e.Missing) > 0 {
		msg += ": " + strings.Join(e.Missing, ", ")
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ModelOutputError) Unwrap() error { return e.Err }

// Kind returns the error_type label.
func (e *ModelOutputError) Kind() string { return ModelOutputErrorKind }
