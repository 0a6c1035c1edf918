package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/n0madic/go-bookrec/internal/codec"
	"github.com/n0madic/go-bookrec/internal/types"
)

func (s *Server) handleFunction(name string, fn Function) http.HandlerFunc {
	resource := "/" + name
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := readBody(w, r)
		if !ok {
			return
		}
		inv, err := Invocation(r, resource, body)
		if err != nil {
			slog.Error("invocation.build.failed", "function", name, "error", err)
			codec.Error(err).Write(w)
			return
		}
		fn.Handle(r.Context(), inv).Write(w)
	}
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	codec.Preflight().Write(w)
}

// --- Helpers ---

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		slog.Warn("request.body.read.failed", "request_id", middleware.GetReqID(r.Context()), "error", err)
		codec.WriteJSON(w, status, types.ErrorResponse{Error: "Failed to read request body", Status: types.StatusError})
		return nil, false
	}
	return body, true
}
