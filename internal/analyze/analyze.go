// Package analyze checks a piece of text for grammar, punctuation and style
// issues and splits the model's sectioned feedback into fields.
package analyze

import (
	"context"
	"log/slog"

	"github.com/n0madic/go-bookrec/internal/codec"
	"github.com/n0madic/go-bookrec/internal/config"
	"github.com/n0madic/go-bookrec/internal/normalize"
	"github.com/n0madic/go-bookrec/internal/pipeline"
	"github.com/n0madic/go-bookrec/internal/prompt"
	"github.com/n0madic/go-bookrec/internal/types"
	"github.com/n0madic/go-bookrec/internal/upstream"
)

// Name is the function name used in routes and logs.
const Name = config.FunctionAnalyze

// Service runs the analyze function against an upstream model.
type Service struct {
	Upstream   upstream.Invoker
	ModelLabel string
	MaxTokens  int
}

// New creates a Service with the label and token ceiling from cfg.
func New(inv upstream.Invoker, cfg *config.ServerConfig) *Service {
	return &Service{
		Upstream:   inv,
		ModelLabel: cfg.ModelLabel,
		MaxTokens:  cfg.AnalyzeMaxTokens,
	}
}

// Handle processes one invocation document.
func (s *Service) Handle(ctx context.Context, invocation []byte) *codec.Response {
	return pipeline.Execute(ctx, Name, invocation, func(ctx context.Context, req *normalize.ExtractedRequest) (any, error) {
		return s.Analyze(ctx, req.Text)
	})
}

// Analyze asks the model for feedback on text.
func (s *Service) Analyze(ctx context.Context, text string) (*types.AnalysisResponse, error) {
	p, err := prompt.GrammarCheck(text)
	if err != nil {
		return nil, err
	}

	maxTokens := s.MaxTokens
	if maxTokens <= 0 {
		maxTokens = config.AnalyzeMaxTokensDefault
	}
	resp, err := s.Upstream.Invoke(ctx, &upstream.Request{Prompt: p, MaxTokens: maxTokens})
	if err != nil {
		return nil, upstream.Wrap("", err)
	}

	feedback, err := upstream.DecodeEnvelope(resp.Body)
	if err != nil {
		return nil, err
	}

	// An unsectioned reply is still returned; raw_feedback carries it.
	reply, ok := ParseSections(feedback)
	if !ok {
		slog.Warn("model.output.unsectioned", "function", Name, "reply_chars", len(feedback))
	}

	model := s.ModelLabel
	if model == "" {
		model = resp.Model
	}
	return &types.AnalysisResponse{
		AnalysisReply: reply,
		RawFeedback:   feedback,
		Model:         model,
		Status:        types.StatusSuccess,
	}, nil
}
