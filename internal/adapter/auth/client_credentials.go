package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const DiscoveryPath = "/.well-known/openid-configuration"

type DiscoveryDocument struct {
	Issuer        string `json:"issuer"`
	TokenEndpoint string `json:"token_endpoint"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope,omitempty"`
}

type TokenError struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

type ClientCredentialsConfig struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	Scope        string
	Timeout      time.Duration
}

// ClientCredentialsSource discovers the token endpoint of an issuer and
// exchanges client credentials for an access token on every call.
type ClientCredentialsSource struct {
	client *resty.Client
	cfg    ClientCredentialsConfig
}

func NewClientCredentialsSource(cfg ClientCredentialsConfig) *ClientCredentialsSource {
	client := resty.New()
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &ClientCredentialsSource{client: client, cfg: cfg}
}

func (s *ClientCredentialsSource) Token(ctx context.Context) (string, error) {
	endpoint, err := s.discover(ctx)
	if err != nil {
		return "", err
	}

	var (
		tok    TokenResponse
		tokErr TokenError
	)
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":    "client_credentials",
			"client_id":     s.cfg.ClientID,
			"client_secret": s.cfg.ClientSecret,
			"scope":         s.cfg.Scope,
		}).
		SetResult(&tok).
		SetError(&tokErr).
		Post(endpoint)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("token request: %s: %s", resp.Status(), tokErr.Error)
	}
	if tok.AccessToken == "" {
		return "", errors.New("token request: empty access token")
	}
	return tok.AccessToken, nil
}

func (s *ClientCredentialsSource) discover(ctx context.Context) (string, error) {
	var doc DiscoveryDocument
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&doc).
		Get(strings.TrimRight(s.cfg.IssuerURL, "/") + DiscoveryPath)
	if err != nil {
		return "", fmt.Errorf("discovery: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("discovery: %s", resp.Status())
	}
	if doc.TokenEndpoint == "" {
		return "", errors.New("discovery: no token endpoint")
	}
	return doc.TokenEndpoint, nil
}
