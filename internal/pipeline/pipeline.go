// Package pipeline runs the steps every function shares: CORS preflight,
// request normalization, and mapping of results and errors onto the
// response envelope.
package pipeline

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/n0madic/go-bookrec/internal/codec"
	"github.com/n0madic/go-bookrec/internal/normalize"
)

// Func produces the success body for an extracted request.
type Func func(ctx context.Context, req *normalize.ExtractedRequest) (any, error)

// Execute processes one invocation document through fn and always returns a
// response. name labels log lines with the function being run.
func Execute(ctx context.Context, name string, invocation []byte, fn Func) *codec.Response {
	if normalize.Method(invocation) == http.MethodOptions {
		return codec.Preflight()
	}

	req, err := normalize.Extract(invocation)
	if err != nil {
		if normalize.IsMissingText(err) {
			slog.Info("request.rejected", "function", name, "reason", err.Error())
			return codec.MissingText()
		}
		return failed(name, err)
	}
	slog.Debug("request.extracted", "function", name, "strategy", req.Strategy, "text_chars", len(req.Text))

	result, err := fn(ctx, req)
	if err != nil {
		return failed(name, err)
	}
	return codec.NewJSON(http.StatusOK, result)
}

func failed(name string, err error) *codec.Response {
	slog.Error("function.failed",
		"function", name,
		"error_type", codec.ErrorKind(err),
		"error", err,
	)
	return codec.Error(err)
}
