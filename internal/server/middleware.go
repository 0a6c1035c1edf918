package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/n0madic/go-bookrec/internal/config"
)

var (
	debugDumpMu sync.Mutex
	dumpOut     io.Writer = os.Stderr
)

const requestIDHeader = "X-Request-Id"

// requestIDMiddleware keeps a caller-supplied X-Request-Id or assigns a UUID,
// echoes it on the response and stores it where middleware.GetReqID finds it.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func verboseMiddleware(cfg *config.ServerConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if cfg == nil || !cfg.Verbose {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			slog.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"elapsed_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote", r.RemoteAddr,
			)
		})
	}
}

func debugMiddleware(cfg *config.ServerConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if cfg == nil || !cfg.Debug {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			dump, err := httputil.DumpRequest(r, true)
			if err != nil {
				slog.Error("request.dump.failed", "method", r.Method, "path", r.URL.Path, "error", err)
			} else {
				slog.Info("request.dump", "method", r.Method, "path", r.URL.Path)
				writeDebugDumpBlock("INBOUND REQUEST", dump)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeDebugDumpBlock(title string, data []byte) {
	debugDumpMu.Lock()
	defer debugDumpMu.Unlock()

	header := "===== " + strings.TrimSpace(title) + " BEGIN =====\n"
	footer := "===== " + strings.TrimSpace(title) + " END =====\n"

	io.WriteString(dumpOut, header) //nolint:errcheck
	if len(data) > 0 {
		dumpOut.Write(data) //nolint:errcheck
		if data[len(data)-1] != '\n' {
			io.WriteString(dumpOut, "\n") //nolint:errcheck
		}
	}
	io.WriteString(dumpOut, footer) //nolint:errcheck
}
