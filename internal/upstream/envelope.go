package upstream

import (
	"bytes"
	"encoding/json"

	"github.com/n0madic/go-bookrec/internal/types"
)

// DecodeEnvelope is the first decode stage: it parses the transport envelope
// and returns the text of its first content block. Failures are *Error since
// they describe the transport, not what the model wrote.
func DecodeEnvelope(body []byte) (string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return "", &Error{Message: "no response body received from upstream"}
	}
	if !json.Valid(body) {
		var probe any
		err := json.Unmarshal(body, &probe)
		return "", &Error{Message: "invalid JSON response from upstream", Err: err}
	}

	var env types.MessagesResponse
	if err := json.Unmarshal(body, &env); err != nil {
		return "", &Error{Message: "invalid response structure from upstream", Err: err}
	}
	if len(env.Content) == 0 {
		return "", &Error{Message: "invalid response structure from upstream: no content blocks"}
	}
	return env.Content[0].Text, nil
}
