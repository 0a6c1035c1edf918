package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/n0madic/go-bookrec/internal/server"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the functions over HTTP",
	Long: `Serve the functions over HTTP:

  GET  /health       liveness probe
  POST /api/books    book recommendations
  POST /api/analyze  grammar and style feedback

Each request is converted into an API Gateway proxy event, so the functions
behave exactly as they do under Lambda.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Bind host (default $BOOKREC_HOST or 127.0.0.1)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default $BOOKREC_PORT or 8000)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("host") {
		cfg.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	functions, err := buildFunctions(ctx, cfg)
	if err != nil {
		return err
	}
	srv := server.New(cfg, functions)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("go-bookrec starting",
			"addr", cfg.Addr(),
			"provider", cfg.Provider,
			"model", cfg.EffectiveModelID(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
