package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// OAuthConfig holds configuration for OAuth sign-in. Only Google is
// supported; residents sign in with their institute accounts.
type OAuthConfig struct {
	Google *oauth2.Config
}

// OAuthUserInfo represents user info returned from the OAuth provider
type OAuthUserInfo struct {
	ProviderID  string
	Email       string
	DisplayName string
	AvatarURL   string
}

// ProviderConfig holds the credentials for an OAuth provider
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
}

// NewOAuthConfig creates the OAuth configuration
func NewOAuthConfig(googleCfg ProviderConfig, callbackBaseURL string) *OAuthConfig {
	config := &OAuthConfig{}

	if googleCfg.ClientID != "" && googleCfg.ClientSecret != "" {
		config.Google = &oauth2.Config{
			ClientID:     googleCfg.ClientID,
			ClientSecret: googleCfg.ClientSecret,
			RedirectURL:  callbackBaseURL + "/api/auth/callback/google",
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		}
	}

	return config
}

// GetAuthURL returns the OAuth authorization URL for a provider
func (c *OAuthConfig) GetAuthURL(provider Provider, state string) (string, error) {
	cfg, err := c.getConfig(provider)
	if err != nil {
		return "", err
	}
	return cfg.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// ExchangeCode exchanges an authorization code for tokens
func (c *OAuthConfig) ExchangeCode(ctx context.Context, provider Provider, code string) (*oauth2.Token, error) {
	cfg, err := c.getConfig(provider)
	if err != nil {
		return nil, err
	}
	return cfg.Exchange(ctx, code)
}

// GetUserInfo fetches user information from the OAuth provider
func (c *OAuthConfig) GetUserInfo(ctx context.Context, provider Provider, token *oauth2.Token) (*OAuthUserInfo, error) {
	cfg, err := c.getConfig(provider)
	if err != nil {
		return nil, err
	}

	client := cfg.Client(ctx, token)

	switch provider {
	case ProviderGoogle:
		return c.getGoogleUserInfo(client)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func (c *OAuthConfig) getConfig(provider Provider) (*oauth2.Config, error) {
	switch provider {
	case ProviderGoogle:
		if c.Google == nil {
			return nil, fmt.Errorf("google OAuth not configured")
		}
		return c.Google, nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// GoogleUserInfo represents Google's userinfo response
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (c *OAuthConfig) getGoogleUserInfo(client *http.Client) (*OAuthUserInfo, error) {
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("google API error: %s", string(body))
	}

	var info GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}

	if info.Email == "" {
		return nil, fmt.Errorf("email not provided by Google")
	}

	displayName := info.Name
	if displayName == "" {
		displayName = info.Email
	}

	return &OAuthUserInfo{
		ProviderID:  info.ID,
		Email:       info.Email,
		DisplayName: displayName,
		AvatarURL:   info.Picture,
	}, nil
}

// IsProviderConfigured checks if a provider is configured
func (c *OAuthConfig) IsProviderConfigured(provider Provider) bool {
	switch provider {
	case ProviderGoogle:
		return c.Google != nil
	default:
		return false
	}
}
