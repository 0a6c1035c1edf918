// Package recommend turns a description of books someone likes into ten
// recommendations authored by the upstream model as strict JSON.
package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/n0madic/go-bookrec/internal/codec"
	"github.com/n0madic/go-bookrec/internal/config"
	"github.com/n0madic/go-bookrec/internal/normalize"
	"github.com/n0madic/go-bookrec/internal/pipeline"
	"github.com/n0madic/go-bookrec/internal/prompt"
	"github.com/n0madic/go-bookrec/internal/types"
	"github.com/n0madic/go-bookrec/internal/upstream"
)

// Name is the function name used in routes and logs.
const Name = config.FunctionBooks

// Service runs the books function against an upstream model.
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
		MaxTokens:  cfg.MaxTokens,
	}
}

// Handle processes one invocation document.
func (s *Service) Handle(ctx context.Context, invocation []byte) *codec.Response {
	return pipeline.Execute(ctx, Name, invocation, func(ctx context.Context, req *normalize.ExtractedRequest) (any, error) {
		return s.Recommend(ctx, req.Text)
	})
}

// Recommend asks the model for recommendations and validates its reply.
func (s *Service) Recommend(ctx context.Context, text string) (*types.RecommendationResponse, error) {
	p, err := prompt.BookRecommendations(text)
	if err != nil {
		return nil, err
	}

	maxTokens := s.MaxTokens
	if maxTokens <= 0 {
		maxTokens = config.BooksMaxTokensDefault
	}
	resp, err := s.Upstream.Invoke(ctx, &upstream.Request{Prompt: p, MaxTokens: maxTokens})
	if err != nil {
		return nil, upstream.Wrap("", err)
	}

	candidate, err := upstream.DecodeEnvelope(resp.Body)
	if err != nil {
		return nil, err
	}

	reply, err := ParseReply(candidate)
	if err != nil {
		slog.Warn("model.output.invalid", "function", Name, "error", err, "reply_chars", len(candidate))
		return nil, err
	}

	model := s.ModelLabel
	if model == "" {
		model = resp.Model
	}
	return &types.RecommendationResponse{
		Analysis:        reply.Analysis,
		Recommendations: reply.Recommendations,
		Reasoning:       reply.Reasoning,
		RawResponse:     candidate,
		Model:           model,
		Status:          types.StatusSuccess,
	}, nil
}

// ParseReply decodes the model-authored JSON and checks that analysis and
// reasoning are non-empty strings and recommendations is an array. The
// number of recommendations is not checked.
func ParseReply(candidate string) (*types.ModelReply, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &fields); err != nil {
		return nil, &types.ModelOutputError{Message: "invalid JSON response from model", Err: err}
	}

	reply := &types.ModelReply{}
	var missing []string
	var ok bool
	if reply.Analysis, ok = nonEmptyString(fields["analysis"]); !ok {
		missing = append(missing, "analysis")
	}
	recs := bytes.TrimSpace(fields["recommendations"])
	if len(recs) == 0 || string(recs) == "null" {
		missing = append(missing, "recommendations")
	}
	if reply.Reasoning, ok = nonEmptyString(fields["reasoning"]); !ok {
		missing = append(missing, "reasoning")
	}
	if len(missing) > 0 {
		return nil, &types.ModelOutputError{
			Message: "model response is missing required fields",
			Missing: missing,
		}
	}
	if recs[0] != '[' {
		return nil, &types.ModelOutputError{Message: "recommendations field is not an array"}
	}
	reply.Recommendations = json.RawMessage(recs)
	return reply, nil
}

func nonEmptyString(raw json.RawMessage) (string, bool) {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return "", false
	}
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
