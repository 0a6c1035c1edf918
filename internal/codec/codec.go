package codec

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/n0madic/go-bookrec/internal/types"
)

// CORS values attached to every JSON response.
const (
	AllowOrigin  = "*"
	AllowMethods = "GET,POST,PUT,DELETE,OPTIONS"
	AllowHeaders = "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token,X-Requested-With"
	MaxAge       = "86400"
)

// MissingTextMessage is the 400 message for an empty text field.
const MissingTextMessage = "Missing required field: text"

// Response is a complete function result in API Gateway proxy form.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

// JSONHeaders returns the headers sent with every JSON response.
func JSONHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  AllowOrigin,
		"Access-Control-Allow-Methods": AllowMethods,
		"Access-Control-Allow-Headers": AllowHeaders,
		"Access-Control-Max-Age":       MaxAge,
	}
}

// Preflight answers a CORS preflight request.
func Preflight() *Response {
	return &Response{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Access-Control-Allow-Origin":  "*",
			"Access-Control-Allow-Methods": "*",
			"Access-Control-Allow-Headers": "*",
		},
	}
}

// NewJSON encodes v as the body of a JSON response.
func NewJSON(status int, v any) *Response {
	body, err := Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = Marshal(types.ErrorResponse{Error: err.Error(), ErrorType: "EncodeError", Status: types.StatusError})
	}
	return &Response{StatusCode: status, Headers: JSONHeaders(), Body: string(body)}
}

// MissingText is the 400 response for a request whose text field is empty.
func MissingText() *Response {
	return NewJSON(http.StatusBadRequest, types.ErrorResponse{Error: MissingTextMessage, Status: types.StatusError})
}

// Error is the 500 response for a failed invocation.
func Error(err error) *Response {
	return NewJSON(http.StatusInternalServerError, types.ErrorResponse{
		Error:     err.Error(),
		ErrorType: ErrorKind(err),
		Status:    types.StatusError,
	})
}

// Marshal encodes v as JSON without HTML escaping and without a trailing newline.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Write sends the response to an HTTP client.
func (r *Response) Write(w http.ResponseWriter) {
	for k, v := range r.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(r.StatusCode)
	if r.Body != "" {
		w.Write([]byte(r.Body)) //nolint:errcheck
	}
}

// Proxy converts the response for the Lambda runtime.
func (r *Response) Proxy() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: r.StatusCode,
		Headers:    r.Headers,
		Body:       r.Body,
	}
}
