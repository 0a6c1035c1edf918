package server

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/tidwall/sjson"
)

// Invocation renders an HTTP request as an API Gateway REST proxy event, the
// shape the functions receive when deployed behind API Gateway. An empty
// request body becomes null.
func Invocation(r *http.Request, resource string, body []byte) ([]byte, error) {
	headers := make(map[string]string, len(r.Header))
	for k := range r.Header {
		headers[k] = r.Header.Get(k)
	}
	var query map[string]string
	if q := r.URL.Query(); len(q) > 0 {
		query = make(map[string]string, len(q))
		for k := range q {
			query[k] = q.Get(k)
		}
	}

	fields := []struct {
		path  string
		value any
	}{
		{"resource", resource},
		{"path", r.URL.Path},
		{"httpMethod", r.Method},
		{"headers", headers},
		{"queryStringParameters", query},
		{"requestContext.requestId", middleware.GetReqID(r.Context())},
		{"requestContext.httpMethod", r.Method},
		{"requestContext.identity.sourceIp", r.RemoteAddr},
		{"isBase64Encoded", false},
	}

	doc := []byte(`{}`)
	var err error
	for _, f := range fields {
		if doc, err = sjson.SetBytes(doc, f.path, f.value); err != nil {
			return nil, err
		}
	}
	if len(body) == 0 {
		return sjson.SetRawBytes(doc, "body", []byte("null"))
	}
	return sjson.SetBytes(doc, "body", string(body))
}
