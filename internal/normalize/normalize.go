// Package normalize extracts the user's text from an invocation document whose
// shape depends on how the function was triggered (API Gateway proxy, console
// test event, direct invoke).
package normalize

import (
	"log/slog"
	"strings"

	"github.com/tidwall/gjson"
)

// ExtractedRequest is the normalized request.
type ExtractedRequest struct {
	Text string `json:"text"`
	// Strategy names the extraction strategy that found the candidate body.
	Strategy string `json:"-"`
}

// Extract runs the strategies in order against the invocation and reads the
// trimmed text field from the first candidate found.
func Extract(invocation []byte) (*ExtractedRequest, error) {
	return ExtractWith(Strategies, invocation)
}

// ExtractWith is Extract with an explicit strategy list.
func ExtractWith(strategies []Strategy, invocation []byte) (*ExtractedRequest, error) {
	if !gjson.ValidBytes(invocation) {
		slog.Warn("request.body.missing", "reason", "invocation is not valid JSON", "bytes", len(invocation))
		return nil, &ExtractionError{Err: ErrMissingBody, Detail: "invocation is not valid JSON"}
	}
	inv := gjson.ParseBytes(invocation)
	if !inv.IsObject() {
		slog.Warn("request.body.missing", "reason", "invocation is not an object", "type", inv.Type.String())
		return nil, &ExtractionError{Err: ErrMissingBody, Detail: "invocation is not a JSON object"}
	}

	candidate, strategy, ok := findCandidate(strategies, inv)
	if !ok {
		keys := TopLevelKeys(inv)
		attrs := []any{"keys", keys}
		if body := inv.Get("body"); body.Exists() {
			attrs = append(attrs, "body", preview(body.Raw, 200))
		}
		slog.Warn("request.body.missing", attrs...)
		return nil, &ExtractionError{
			Err:    ErrMissingBody,
			Detail: "could not find request body with 'text' field",
			Keys:   keys,
		}
	}
	if candidate.Raw == "" {
		slog.Warn("request.body.invalid", "strategy", strategy)
		return nil, &ExtractionError{Err: ErrInvalidBody, Strategy: strategy}
	}

	// Arrays and scalars carry no text field and fall through to ErrMissingText.
	var text string
	if candidate.IsObject() {
		text = strings.TrimSpace(textValue(candidate.Get("text")))
	}
	if text == "" {
		return nil, &ExtractionError{Err: ErrMissingText, Strategy: strategy}
	}
	return &ExtractedRequest{Text: text, Strategy: strategy}, nil
}

// Method returns the HTTP method recorded in a gateway invocation, or "" for
// direct invocations. Both REST (v1) and HTTP (v2) API event shapes are read.
func Method(invocation []byte) string {
	res := gjson.GetManyBytes(invocation, "httpMethod", "requestContext.http.method")
	for _, r := range res {
		if r.Type == gjson.String && strings.TrimSpace(r.Str) != "" {
			return strings.ToUpper(strings.TrimSpace(r.Str))
		}
	}
	return ""
}

// TopLevelKeys lists the object's keys in document order.
func TopLevelKeys(obj gjson.Result) []string {
	var keys []string
	obj.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	return keys
}

func findCandidate(strategies []Strategy, inv gjson.Result) (gjson.Result, string, bool) {
	for _, s := range strategies {
		if candidate, ok := s.Match(inv); ok {
			return candidate, s.Name, true
		}
	}
	return gjson.Result{}, "", false
}

// textValue follows truthiness for scalars: false, zero and "" read as
// empty, while true and other numbers keep their JSON spelling. Objects and
// arrays are not descriptions and read as empty.
func textValue(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.True:
		return r.Raw
	case gjson.Number:
		if r.Num == 0 {
			return ""
		}
		return r.Raw
	default:
		return ""
	}
}

func preview(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
