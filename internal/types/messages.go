package types

import (
	"encoding/json"
	"strings"
)

// AnthropicVersionBedrock is the messages API version Bedrock expects in the payload.
const AnthropicVersionBedrock = "bedrock-2023-05-31"

// MessagesRequest is the Anthropic messages payload sent to Bedrock InvokeModel.
type MessagesRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	Messages         []Message `json:"messages"`
}

// Message is a single user/assistant turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MessagesResponse is the transport envelope returned by the upstream model.
// Providers that speak a different wire format are re-encoded into this shape.
type MessagesResponse struct {
	ID           string         `json:"id,omitempty"`
	Type         string         `json:"type,omitempty"`
	Role         string         `json:"role,omitempty"`
	Model        string         `json:"model,omitempty"`
	Content      []ContentBlock `json:"content"`
	StopReason   *string        `json:"stop_reason,omitempty"`
	StopSequence *string        `json:"stop_sequence,omitempty"`
	Usage        *Usage         `json:"usage,omitempty"`
}

// ContentBlock is one unit of generated content in the envelope.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Usage holds token accounting reported by the upstream.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// NewUserMessagesRequest builds a single-turn messages payload.
func NewUserMessagesRequest(version, prompt string, maxTokens int) MessagesRequest {
	if strings.TrimSpace(version) == "" {
		version = AnthropicVersionBedrock
	}
	return MessagesRequest{
		AnthropicVersion: version,
		MaxTokens:        maxTokens,
		Messages:         []Message{{Role: "user", Content: prompt}},
	}
}

// NewTextEnvelope wraps generated texts, one content block each, into a
// messages envelope.
func NewTextEnvelope(id, model string, texts []string, usage *Usage) ([]byte, error) {
	blocks := make([]ContentBlock, 0, len(texts))
	for _, text := range texts {
		blocks = append(blocks, ContentBlock{Type: "text", Text: text})
	}
	return json.Marshal(MessagesResponse{
		ID:      id,
		Type:    "message",
		Role:    "assistant",
		Model:   model,
		Content: blocks,
		Usage:   usage,
	})
}
