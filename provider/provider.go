// Package provider talks to the Git hosting provider's OAuth endpoints.
package provider

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jrsteele09/go-decap-oauth/internal/config"
	apperrors "github.com/jrsteele09/go-decap-oauth/internal/errors"
	"golang.org/x/oauth2"
)

// Provider builds authorize URLs and exchanges codes for one configured provider.
type Provider struct {
	name         string
	oauth2Config *oauth2.Config
	httpClient   *http.Client
	timeout      time.Duration
}

func New(cfg *config.Config) *Provider {
	authStyle := oauth2.AuthStyleInHeader
	if cfg.AuthStyle == config.AuthStyleParams {
		authStyle = oauth2.AuthStyleInParams
	}

	return &Provider{
		name: cfg.Provider,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.Secret,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL(),
				TokenURL:  cfg.TokenURL(),
				AuthStyle: authStyle,
			},
			Scopes: cfg.Scopes,
		},
		httpClient: &http.Client{Timeout: cfg.TokenTimeout},
		timeout:    cfg.TokenTimeout,
	}
}

func (p *Provider) Name() string {
	return p.name
}

// AuthCodeURL returns the provider's authorize URL. A nil scopes slice keeps
// the configured scopes.
func (p *Provider) AuthCodeURL(state, redirectURL string, scopes []string) string {
	cfg := *p.oauth2Config // copy
	cfg.RedirectURL = redirectURL
	if scopes != nil {
		cfg.Scopes = scopes
	}
	return cfg.AuthCodeURL(state)
}

// Exchange trades an authorization code for an access token. redirectURL must
// match the one sent to the authorize endpoint.
func (p *Provider) Exchange(ctx context.Context, code, redirectURL string) (*oauth2.Token, error) {
	cfg := *p.oauth2Config // copy
	cfg.RedirectURL = redirectURL

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrTokenExchange, err)
	}
	return token, nil
}

// ErrorDescription returns a message for the browser describing a failed
// exchange. Provider error codes are passed through; transport details are not.
func ErrorDescription(err error) string {
	var retrieveErr *oauth2.RetrieveError
	if apperrors.As(err, &retrieveErr) && retrieveErr.ErrorCode != "" {
		if retrieveErr.ErrorDescription != "" {
			return retrieveErr.ErrorCode + ": " + retrieveErr.ErrorDescription
		}
		return retrieveErr.ErrorCode
	}
	var netErr net.Error
	if apperrors.Is(err, context.DeadlineExceeded) || (apperrors.As(err, &netErr) && netErr.Timeout()) {
		return "token exchange timed out"
	}
	return apperrors.ErrTokenExchange.Error()
}
