package codec

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrorKindDefault labels errors that carry no kind of their own.
const ErrorKindDefault = "Error"

// Kinded is implemented by errors that report an error_type label.
type Kinded interface {
	error
	Kind() string
}

// ErrorKind returns the error_type label of the first error in err's chain
// that has one.
func ErrorKind(err error) string {
	var k Kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return ErrorKindDefault
}

// WriteJSON writes a JSON response with the standard CORS headers.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	NewJSON(status, v).Write(w)
}

// FormatUpstreamError formats an error from the upstream response.
func FormatUpstreamError(statusCode int, rawBody []byte) string {
	status := fmt.Sprintf("%d", statusCode)
	if text := http.StatusText(statusCode); text != "" {
		status = fmt.Sprintf("%d %s", statusCode, text)
	}
	if msg := ExtractUpstreamErrorMessage(rawBody); msg != "" {
		return fmt.Sprintf("Upstream returned HTTP %s: %s", status, msg)
	}
	if preview := bodyPreview(rawBody, 280); preview != "" {
		return fmt.Sprintf("Upstream returned HTTP %s with unparsed body: %s", status, preview)
	}
	return fmt.Sprintf("Upstream returned HTTP %s with empty error body", status)
}

// FormatUpstreamErrorWithRequestID appends the upstream request ID when known.
func FormatUpstreamErrorWithRequestID(statusCode int, rawBody []byte, requestID string) string {
	msg := FormatUpstreamError(statusCode, rawBody)
	if requestID = strings.TrimSpace(requestID); requestID == "" {
		return msg
	}
	return fmt.Sprintf("%s (request_id: %s)", msg, requestID)
}
// ExtractUpstreamErrorMessage returns the message carried by an upstream
// error body. Bedrock errors arrive as {"message": ...}, OpenAI and Gemini
// wrap theirs in {"error": {"message": ...}}; some gateways send
// {"error": "..."}.
func ExtractUpstreamErrorMessage(rawBody []byte) string {
	if !gjson.ValidBytes(rawBody) {
		return ""
	}
	doc := gjson.ParseBytes(rawBody)
	for _, path := range []string{"message", "error.message", "error"} {
		if v := doc.Get(path); v.Type == gjson.String {
			if msg := strings.TrimSpace(v.Str); msg != "" {
				return msg
			}
		}
	}
	return ""
}

func bodyPreview(rawBody []byte, maxLen int) string {
	clean := strings.Join(strings.Fields(string(rawBody)), " ")
	if len(clean) <= maxLen {
		return clean
	}
	return clean[:maxLen] + "..."
}
