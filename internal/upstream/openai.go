package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/n0madic/go-bookrec/internal/auth"
	"github.com/n0madic/go-bookrec/internal/codec"
	"github.com/n0madic/go-bookrec/internal/config"
	"github.com/n0madic/go-bookrec/internal/types"
)

const providerOpenAI = "openai"

// OpenAIClient invokes an OpenAI-compatible chat completions endpoint and
// re-encodes the reply as a messages envelope.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient builds the SDK client with credentials from cfg.
func NewOpenAIClient(ctx context.Context, cfg config.OpenAIConfig, model string) (*OpenAIClient, error) {
	httpClient, err := auth.NewHTTPClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	opts := []option.RequestOption{
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIClient{client: openai.NewClient(opts...), model: model}, nil
}

func (o *OpenAIClient) Name() string  { return providerOpenAI }
func (o *OpenAIClient) Model() string { return o.model }

// Invoke sends the prompt as a single user message.
func (o *OpenAIClient) Invoke(ctx context.Context, req *Request) (*Response, error) {
	completion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		MaxCompletionTokens: openai.Int(int64(req.MaxTokens)),
	})
	if err != nil {
		return nil, openAIError(err)
	}

	texts := make([]string, 0, len(completion.Choices))
	for _, choice := range completion.Choices {
		texts = append(texts, choice.Message.Content)
	}
	usage := &types.Usage{
		InputTokens:  int(completion.Usage.PromptTokens),
		OutputTokens: int(completion.Usage.CompletionTokens),
	}
	model := firstNonEmpty(completion.Model, o.model)
	body, err := types.NewTextEnvelope(completion.ID, model, texts, usage)
	if err != nil {
		return nil, fmt.Errorf("failed to encode envelope: %w", err)
	}
	return &Response{Body: body, Model: model, RequestID: completion.ID}, nil
}

func openAIError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		raw := []byte(apiErr.RawJSON())
		if codec.ExtractUpstreamErrorMessage(raw) == "" && apiErr.Message != "" {
			raw, _ = json.Marshal(map[string]string{"message": apiErr.Message})
		}
		return &Error{
			Provider:   providerOpenAI,
			StatusCode: apiErr.StatusCode,
			Message:    codec.FormatUpstreamError(apiErr.StatusCode, raw),
		}
	}
	return &Error{Provider: providerOpenAI, Message: "chat completion request failed", Err: err}
}
