package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var envKeys = []string{
	"BOOKREC_HOST",
	"BOOKREC_PORT",
	"BOOKREC_VERBOSE",
	"BOOKREC_DEBUG",
	"BOOKREC_FUNCTION",
	"BOOKREC_PROVIDER",
	"BOOKREC_REGION",
	"AWS_REGION",
	"BOOKREC_MODEL_ID",
	"BOOKREC_MODEL_LABEL",
	"BOOKREC_MAX_TOKENS",
	"BOOKREC_ANALYZE_MAX_TOKENS",
	"BOOKREC_UPSTREAM_TIMEOUT",
	"BOOKREC_CONFIG",
	"OPENAI_BASE_URL",
	"OPENAI_API_KEY",
	"BOOKREC_OAUTH_TOKEN_URL",
	"BOOKREC_OAUTH_CLIENT_ID",
	"BOOKREC_OAUTH_CLIENT_SECRET",
	"BOOKREC_OAUTH_SCOPES",
	"GEMINI_API_KEY",
	"GOOGLE_API_KEY",
}

// clearEnv blanks every variable DefaultFromEnv reads for the duration of a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

// TestDefaultFromEnvDefaults checks that DefaultFromEnv returns expected defaults
// when no environment variables are set.
func TestDefaultFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg := DefaultFromEnv()

	if cfg.Host != "127.0.0.1" {
		t.Errorf("Host: got %q, want %q", cfg.Host, "127.0.0.1")
	}
	if cfg.Port != 8000 {
		t.Errorf("Port: got %d, want 8000", cfg.Port)
	}
	if cfg.Debug || cfg.Verbose {
		t.Error("Debug and Verbose should be false by default")
	}
	if cfg.Provider != ProviderBedrock {
		t.Errorf("Provider: got %q, want %q", cfg.Provider, ProviderBedrock)
	}
	if cfg.Function != FunctionBooks {
		t.Errorf("Function: got %q, want %q", cfg.Function, FunctionBooks)
	}
	if cfg.Region != RegionDefault {
		t.Errorf("Region: got %q, want %q", cfg.Region, RegionDefault)
	}
	if cfg.ModelLabel != ModelLabelDefault {
		t.Errorf("ModelLabel: got %q, want %q", cfg.ModelLabel, ModelLabelDefault)
	}
	if cfg.MaxTokens != 1500 {
		t.Errorf("MaxTokens: got %d, want 1500", cfg.MaxTokens)
	}
	if cfg.AnalyzeMaxTokens != 1000 {
		t.Errorf("AnalyzeMaxTokens: got %d, want 1000", cfg.AnalyzeMaxTokens)
	}
	if cfg.UpstreamTimeout != UpstreamTimeoutDefault {
		t.Errorf("UpstreamTimeout: got %v, want %v", cfg.UpstreamTimeout, UpstreamTimeoutDefault)
	}
	if got := cfg.EffectiveModelID(); got != BedrockModelDefault {
		t.Errorf("EffectiveModelID: got %q, want %q", got, BedrockModelDefault)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

// TestDefaultFromEnvOverrides verifies that environment variables override defaults.
func TestDefaultFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOOKREC_PORT", "9090")
	t.Setenv("BOOKREC_DEBUG", "yes")
	t.Setenv("BOOKREC_PROVIDER", "OpenAI")
	t.Setenv("BOOKREC_FUNCTION", " Analyze ")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("BOOKREC_MAX_TOKENS", "800")
	t.Setenv("BOOKREC_UPSTREAM_TIMEOUT", "5s")
	t.Setenv("OPENAI_API_KEY", " sk-test ")
	t.Setenv("BOOKREC_OAUTH_SCOPES", "read, write,,")

	cfg := DefaultFromEnv()

	if cfg.Port != 9090 {
		t.Errorf("Port: got %d, want 9090", cfg.Port)
	}
	if !cfg.Debug {
		t.Error("Debug should be true when env is 'yes'")
	}
	// envOrDefault lowercases and trims values
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("Provider: got %q, want %q", cfg.Provider, ProviderOpenAI)
	}
	if cfg.Function != FunctionAnalyze {
		t.Errorf("Function: got %q, want %q", cfg.Function, FunctionAnalyze)
	}
	if cfg.Region != "eu-west-1" {
		t.Errorf("Region: got %q, want %q", cfg.Region, "eu-west-1")
	}
	if cfg.MaxTokens != 800 {
		t.Errorf("MaxTokens: got %d, want 800", cfg.MaxTokens)
	}
	if cfg.UpstreamTimeout != 5*time.Second {
		t.Errorf("UpstreamTimeout: got %v, want 5s", cfg.UpstreamTimeout)
	}
	if cfg.OpenAI.APIKey != "sk-test" {
		t.Errorf("OpenAI.APIKey: got %q, want %q", cfg.OpenAI.APIKey, "sk-test")
	}
	if len(cfg.OpenAI.OAuth.Scopes) != 2 {
		t.Errorf("OAuth scopes: got %v, want [read write]", cfg.OpenAI.OAuth.Scopes)
	}
	if got := cfg.EffectiveModelID(); got != OpenAIModelDefault {
		t.Errorf("EffectiveModelID: got %q, want %q", got, OpenAIModelDefault)
	}
}

// TestBookrecRegionWinsOverAWSRegion checks the precedence between the two region variables.
func TestBookrecRegionWinsOverAWSRegion(t *testing.T) {
	clearEnv(t)
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("BOOKREC_REGION", "us-west-2")

	if got := DefaultFromEnv().Region; got != "us-west-2" {
		t.Errorf("Region: got %q, want %q", got, "us-west-2")
	}
}

// TestEnvBoolVariants checks all accepted truthy values for boolean env vars.
func TestEnvBoolVariants(t *testing.T) {
	truthy := []string{"1", "true", "yes", "on", "TRUE", "YES", "ON"}
	for _, val := range truthy {
		t.Run(val, func(t *testing.T) {
			t.Setenv("BOOKREC_VERBOSE", val)
			if !DefaultFromEnv().Verbose {
				t.Errorf("expected Verbose=true for env value %q", val)
			}
		})
	}

	falsy := []string{"0", "false", "no", "off", ""}
	for _, val := range falsy {
		t.Run("false_"+val, func(t *testing.T) {
			t.Setenv("BOOKREC_VERBOSE", val)
			if DefaultFromEnv().Verbose {
				t.Errorf("expected Verbose=false for env value %q", val)
			}
		})
	}
}

// TestInvalidNumbersFallBack checks that malformed numeric env values keep the defaults.
func TestInvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOOKREC_PORT", "eighty")
	t.Setenv("BOOKREC_UPSTREAM_TIMEOUT", "soon")

	cfg := DefaultFromEnv()
	if cfg.Port != 8000 {
		t.Errorf("Port: got %d, want 8000", cfg.Port)
	}
	if cfg.UpstreamTimeout != UpstreamTimeoutDefault {
		t.Errorf("UpstreamTimeout: got %v, want %v", cfg.UpstreamTimeout, UpstreamTimeoutDefault)
	}
}

func TestLoadOverlaysYAML(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "from-env")

	path := filepath.Join(t.TempDir(), "bookrec.yaml")
	content := `
provider: Gemini
function: analyze
port: 7070
model_id: gemini-custom
max_tokens: 2000
upstream_timeout: 90s
gemini:
  api_key: g-key
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderGemini {
		t.Errorf("Provider: got %q, want %q", cfg.Provider, ProviderGemini)
	}
	if cfg.Function != FunctionAnalyze {
		t.Errorf("Function: got %q, want %q", cfg.Function, FunctionAnalyze)
	}
	if cfg.Port != 7070 {
		t.Errorf("Port: got %d, want 7070", cfg.Port)
	}
	if cfg.EffectiveModelID() != "gemini-custom" {
		t.Errorf("EffectiveModelID: got %q", cfg.EffectiveModelID())
	}
	if cfg.MaxTokens != 2000 {
		t.Errorf("MaxTokens: got %d, want 2000", cfg.MaxTokens)
	}
	if cfg.UpstreamTimeout != 90*time.Second {
		t.Errorf("UpstreamTimeout: got %v, want 90s", cfg.UpstreamTimeout)
	}
	if cfg.Gemini.APIKey != "g-key" {
		t.Errorf("Gemini.APIKey: got %q", cfg.Gemini.APIKey)
	}
	// Keys absent from the file keep their env values.
	if cfg.OpenAI.APIKey != "from-env" {
		t.Errorf("OpenAI.APIKey: got %q, want %q", cfg.OpenAI.APIKey, "from-env")
	}
	if cfg.AnalyzeMaxTokens != AnalyzeMaxTokensDefault {
		t.Errorf("AnalyzeMaxTokens: got %d", cfg.AnalyzeMaxTokens)
	}
}

func TestLoadUsesConfigEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "c.yaml")
	if err := os.WriteFile(path, []byte("model_label: test-label\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BOOKREC_CONFIG", path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ModelLabel != "test-label" {
		t.Errorf("ModelLabel: got %q, want %q", cfg.ModelLabel, "test-label")
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("port: [1, 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*ServerConfig) {}},
		{name: "unknown provider", mutate: func(c *ServerConfig) { c.Provider = "cohere" }, wantErr: true},
		{name: "unknown function", mutate: func(c *ServerConfig) { c.Function = "poems" }, wantErr: true},
		{name: "zero max tokens", mutate: func(c *ServerConfig) { c.MaxTokens = 0 }, wantErr: true},
		{name: "negative analyze tokens", mutate: func(c *ServerConfig) { c.AnalyzeMaxTokens = -1 }, wantErr: true},
		{name: "negative timeout", mutate: func(c *ServerConfig) { c.UpstreamTimeout = -time.Second }, wantErr: true},
		{name: "disabled timeout", mutate: func(c *ServerConfig) { c.UpstreamTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cfg := DefaultFromEnv()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOAuthEnabled(t *testing.T) {
	if (OAuthConfig{}).Enabled() {
		t.Error("empty OAuth config should be disabled")
	}
	if !(OAuthConfig{TokenURL: "https://idp/token", ClientID: "id"}).Enabled() {
		t.Error("token URL plus client ID should enable OAuth")
	}
}
