package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/n0madic/go-bookrec/internal/analyze"
	"github.com/n0madic/go-bookrec/internal/config"
	"github.com/n0madic/go-bookrec/internal/recommend"
	"github.com/n0madic/go-bookrec/internal/server"
	"github.com/n0madic/go-bookrec/internal/upstream"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	configPath string
	verbose    bool
	debug      bool
	provider   string
	modelID    string

	cfg *config.ServerConfig
)

var rootCmd = &cobra.Command{
	Use:   "go-bookrec",
	Short: "Book recommendations and text analysis backed by a hosted LLM",
	Long: `go-bookrec forwards user text to a hosted language model and returns
structured JSON: ten book recommendations, or grammar and style feedback.

The same functions run as an HTTP server, as an AWS Lambda function behind
API Gateway, or as a one-shot invocation from the command line.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML config file (default $BOOKREC_CONFIG)")
	pf.BoolVar(&verbose, "verbose", false, "Log requests and upstream calls")
	pf.BoolVar(&debug, "debug", false, "Debug logging and request/upstream dumps")
	pf.StringVar(&provider, "provider", "", "Upstream provider (bedrock|openai|gemini)")
	pf.StringVar(&modelID, "model", "", "Upstream model ID")

	rootCmd.AddCommand(serveCmd, lambdaCmd, invokeCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errNonSuccess) {
			slog.Error("command failed", "error", err)
		}
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("verbose") {
		c.Verbose = verbose
	}
	if flags.Changed("debug") {
		c.Debug = debug
	}
	if flags.Changed("provider") {
		c.Provider = provider
	}
	if flags.Changed("model") {
		c.ModelID = modelID
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	setupLogging(c)
	cfg = c
	return nil
}

func setupLogging(c *config.ServerConfig) {
	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

// buildFunctions creates the upstream client once and the functions that share it.
func buildFunctions(ctx context.Context, c *config.ServerConfig) (map[string]server.Function, error) {
	client, err := upstream.New(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("upstream: %w", err)
	}
	return map[string]server.Function{
		recommend.Name: recommend.New(client, c),
		analyze.Name:   analyze.New(client, c),
	}, nil
}

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print the version",
	Args:              cobra.NoArgs,
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "go-bookrec", version)
	},
}
