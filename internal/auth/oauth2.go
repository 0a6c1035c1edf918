// Package auth provides the credentials used for outbound calls to the
// OpenAI-compatible provider.
package auth

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/n0madic/go-bookrec/internal/config"
)

// NewHTTPClient returns an HTTP client that attaches a bearer token to every
// request. When OAuth is configured the token comes from the client-credentials
// grant and is refreshed by the oauth2 package; otherwise the static API key is
// used. ctx scopes token fetches and should live as long as the client.
func NewHTTPClient(ctx context.Context, cfg config.OpenAIConfig) (*http.Client, error) {
	if cfg.OAuth.Enabled() {
		return NewClientCredentialsConfig(cfg.OAuth).Client(ctx), nil
	}
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, ErrNoCredentials
	}
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: key,
		TokenType:   "Bearer",
	})), nil
}

// NewClientCredentialsConfig maps the OAuth settings to a clientcredentials.Config.
func NewClientCredentialsConfig(cfg config.OAuthConfig) *clientcredentials.Config {
	return &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       cfg.Scopes,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
}
