package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/n0madic/go-bookrec/internal/config"
)

// Request is a single-turn prompt for the upstream model.
type Request struct {
	Prompt    string
	MaxTokens int
}

// Response carries the raw transport envelope returned by the upstream.
type Response struct {
	Body      []byte
	Model     string
	RequestID string
}

// Invoker sends a prompt and returns the transport envelope.
type Invoker interface {
	Invoke(ctx context.Context, req *Request) (*Response, error)
}

// Provider is a concrete model backend.
type Provider interface {
	Invoker
	Name() string
	Model() string
}

// Client wraps a Provider with the request timeout, logging and debug dumps.
// It is built once per process and is safe for concurrent use.
type Client struct {
	Provider Provider
	Timeout  time.Duration
	Verbose  bool
	Debug    bool

	dumpMu  sync.Mutex
	dumpOut io.Writer
}

// NewClient creates a client around an already constructed provider.
func NewClient(p Provider, timeout time.Duration, verbose, debug bool) *Client {
	return &Client{Provider: p, Timeout: timeout, Verbose: verbose, Debug: debug}
}

// New builds the provider selected by cfg.
func New(ctx context.Context, cfg *config.ServerConfig) (*Client, error) {
	var (
		p   Provider
		err error
	)
	model := cfg.EffectiveModelID()
	switch cfg.Provider {
	case config.ProviderBedrock:
		p, err = NewBedrockClient(ctx, cfg.Region, model, cfg.AnthropicVersion)
	case config.ProviderOpenAI:
		p, err = NewOpenAIClient(ctx, cfg.OpenAI, model)
	case config.ProviderGemini:
		p, err = NewGeminiClient(ctx, cfg.Gemini.APIKey, model)
	default:
		err = fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return NewClient(p, cfg.UpstreamTimeout, cfg.Verbose, cfg.Debug), nil
}

// Invoke sends the prompt through the provider. Every failure is returned as *Error.
func (c *Client) Invoke(ctx context.Context, req *Request) (*Response, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	if c.Verbose {
		slog.Info("upstream.request",
			"provider", c.Provider.Name(),
			"model", c.Provider.Model(),
			"prompt_chars", len(req.Prompt),
			"max_tokens", req.MaxTokens,
		)
	}
	if c.Debug {
		c.writeDebugDumpBlock("UPSTREAM PROMPT", []byte(req.Prompt))
	}

	start := time.Now()
	resp, err := c.Provider.Invoke(ctx, req)
	if err != nil {
		return nil, c.wrapError(ctx, err)
	}

	if c.Verbose {
		attrs := []any{
			"provider", c.Provider.Name(),
			"bytes", len(resp.Body),
			"elapsed_ms", time.Since(start).Milliseconds(),
		}
		if resp.RequestID != "" {
			attrs = append(attrs, "request_id", resp.RequestID)
		}
		slog.Info("upstream.response", attrs...)
	}
	if c.Debug {
		c.dumpResponseBody(resp)
	}
	return resp, nil
}

func (c *Client) wrapError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &Error{
			Provider: c.Provider.Name(),
			Message:  fmt.Sprintf("upstream request timed out after %s", c.Timeout),
			Err:      err,
			Timeout:  true,
		}
	}
	return Wrap(c.Provider.Name(), err)
}

func (c *Client) dumpWriter() io.Writer {
	if c.dumpOut != nil {
		return c.dumpOut
	}
	return os.Stderr
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}
