package upstream

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/n0madic/go-bookrec/internal/auth"
	"github.com/n0madic/go-bookrec/internal/types"
)

const providerGemini = "gemini"

// GeminiClient invokes Google's Gemini API and re-encodes the reply as a
// messages envelope.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini API client.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini: %w", auth.ErrNoCredentials)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (g *GeminiClient) Name() string  { return providerGemini }
func (g *GeminiClient) Model() string { return g.model }

// Invoke generates content for the prompt, one content block per candidate.
func (g *GeminiClient) Invoke(ctx context.Context, req *Request) (*Response, error) {
	result, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(req.Prompt),
		&genai.GenerateContentConfig{
			MaxOutputTokens: int32(req.MaxTokens),
		},
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, &Error{Provider: providerGemini, Message: "GenAI generate failed", Err: err}
	}

	texts := make([]string, 0, len(result.Candidates))
	for _, cand := range result.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range cand.Content.Parts {
			if part != nil {
				b.WriteString(part.Text)
			}
		}
		texts = append(texts, b.String())
	}

	var usage *types.Usage
	if md := result.UsageMetadata; md != nil {
		usage = &types.Usage{
			InputTokens:  int(md.PromptTokenCount),
			OutputTokens: int(md.CandidatesTokenCount),
		}
	}
	body, err := types.NewTextEnvelope("", g.model, texts, usage)
	if err != nil {
		return nil, fmt.Errorf("failed to encode envelope: %w", err)
	}
	return &Response{Body: body, Model: g.model}, nil
}
