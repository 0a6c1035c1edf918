package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ProviderBedrock = "bedrock"
	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"

	FunctionBooks   = "books"
	FunctionAnalyze = "analyze"

	RegionDefault           = "us-east-1"
	BedrockModelDefault     = "anthropic.claude-3-5-sonnet-20240620-v1:0"
	OpenAIModelDefault      = "gpt-4o-mini"
	GeminiModelDefault      = "gemini-2.0-flash"
	ModelLabelDefault       = "claude-3-5-sonnet"
	AnthropicVersionDefault = "bedrock-2023-05-31"
	BooksMaxTokensDefault   = 1500
	AnalyzeMaxTokensDefault = 1000
	UpstreamTimeoutDefault  = 60 * time.Second
)

// ServerConfig holds all runtime configuration.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	Verbose          bool          `yaml:"verbose"`
	Debug            bool          `yaml:"debug"`
	Function         string        `yaml:"function"`
	Provider         string        `yaml:"provider"`
	Region           string        `yaml:"region"`
	ModelID          string        `yaml:"model_id"`
	ModelLabel       string        `yaml:"model_label"`
	MaxTokens        int           `yaml:"max_tokens"`
	AnalyzeMaxTokens int           `yaml:"analyze_max_tokens"`
	UpstreamTimeout  time.Duration `yaml:"upstream_timeout"`
	AnthropicVersion string        `yaml:"anthropic_version"`
	OpenAI           OpenAIConfig  `yaml:"openai"`
	Gemini           GeminiConfig  `yaml:"gemini"`
}

// OpenAIConfig configures the OpenAI-compatible provider.
type OpenAIConfig struct {
	BaseURL string      `yaml:"base_url"`
	APIKey  string      `yaml:"api_key"`
	OAuth   OAuthConfig `yaml:"oauth"`
}

// OAuthConfig enables the client-credentials grant in front of an
// OpenAI-compatible gateway. It takes precedence over APIKey when set.
type OAuthConfig struct {
	TokenURL     string   `yaml:"token_url"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	Scopes       []string `yaml:"scopes"`
}

// Enabled reports whether enough is configured to request tokens.
func (o OAuthConfig) Enabled() bool {
	return o.TokenURL != "" && o.ClientID != ""
}

// GeminiConfig configures the Gemini provider.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
}

// DefaultFromEnv creates a ServerConfig with defaults from environment variables.
func DefaultFromEnv() *ServerConfig {
	return &ServerConfig{
		Host:             envOrDefault("BOOKREC_HOST", "127.0.0.1"),
		Port:             envInt("BOOKREC_PORT", 8000),
		Verbose:          envBool("BOOKREC_VERBOSE"),
		Debug:            envBool("BOOKREC_DEBUG"),
		Function:         envOrDefault("BOOKREC_FUNCTION", FunctionBooks),
		Provider:         envOrDefault("BOOKREC_PROVIDER", ProviderBedrock),
		Region:           firstNonEmpty(os.Getenv("BOOKREC_REGION"), os.Getenv("AWS_REGION"), RegionDefault),
		ModelID:          strings.TrimSpace(os.Getenv("BOOKREC_MODEL_ID")),
		ModelLabel:       firstNonEmpty(os.Getenv("BOOKREC_MODEL_LABEL"), ModelLabelDefault),
		MaxTokens:        envInt("BOOKREC_MAX_TOKENS", BooksMaxTokensDefault),
		AnalyzeMaxTokens: envInt("BOOKREC_ANALYZE_MAX_TOKENS", AnalyzeMaxTokensDefault),
		UpstreamTimeout:  envDuration("BOOKREC_UPSTREAM_TIMEOUT", UpstreamTimeoutDefault),
		AnthropicVersion: AnthropicVersionDefault,
		OpenAI: OpenAIConfig{
			BaseURL: strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),
			APIKey:  strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
			OAuth: OAuthConfig{
				TokenURL:     strings.TrimSpace(os.Getenv("BOOKREC_OAUTH_TOKEN_URL")),
				ClientID:     strings.TrimSpace(os.Getenv("BOOKREC_OAUTH_CLIENT_ID")),
				ClientSecret: strings.TrimSpace(os.Getenv("BOOKREC_OAUTH_CLIENT_SECRET")),
				Scopes:       splitList(os.Getenv("BOOKREC_OAUTH_SCOPES")),
			},
		},
		Gemini: GeminiConfig{
			APIKey: firstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY")),
		},
	}
}

// Load builds the configuration from the environment and overlays the YAML
// file at path, if any. BOOKREC_CONFIG is used when path is empty.
func Load(path string) (*ServerConfig, error) {
	cfg := DefaultFromEnv()
	if path == "" {
		path = strings.TrimSpace(os.Getenv("BOOKREC_CONFIG"))
	}
	if path == "" {
		return cfg, nil
	}
	if err := cfg.LoadFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the values present in a YAML file onto c.
func (c *ServerConfig) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	c.Function = strings.ToLower(strings.TrimSpace(c.Function))
	return nil
}

// Validate checks the settings that would otherwise fail at request time.
func (c *ServerConfig) Validate() error {
	switch c.Provider {
	case ProviderBedrock, ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	switch c.Function {
	case FunctionBooks, FunctionAnalyze:
	default:
		return fmt.Errorf("unknown function %q", c.Function)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", c.MaxTokens)
	}
	if c.AnalyzeMaxTokens <= 0 {
		return fmt.Errorf("analyze_max_tokens must be positive, got %d", c.AnalyzeMaxTokens)
	}
	if c.UpstreamTimeout < 0 {
		return fmt.Errorf("upstream_timeout must not be negative")
	}
	return nil
}

// EffectiveModelID returns the configured model or the provider default.
func (c *ServerConfig) EffectiveModelID() string {
	if id := strings.TrimSpace(c.ModelID); id != "" {
		return id
	}
	switch c.Provider {
	case ProviderOpenAI:
		return OpenAIModelDefault
	case ProviderGemini:
		return GeminiModelDefault
	default:
		return BedrockModelDefault
	}
}

// Addr is the listen address for serve.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return strings.ToLower(strings.TrimSpace(v))
	}
	return defaultVal
}

func envBool(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func envInt(key string, defaultVal int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
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
