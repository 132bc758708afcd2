package server

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-decap-oauth/internal/config"
	apperrors "github.com/jrsteele09/go-decap-oauth/internal/errors"
)

// generateRandomString creates a random base64url string
func generateRandomString(length int) string {
	b := make([]byte, length)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// getScheme is the scheme the browser used to reach us. Plain http is only
// reported when a proxy says so.
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		proto = strings.ToLower(strings.TrimSpace(strings.SplitN(proto, ",", 2)[0]))
		if proto == "http" || proto == "https" {
			return proto
		}
	}
	return "https"
}

// redirectURL is the callback URL registered with the provider. It must be
// identical on /auth and /callback.
func (s *Server) redirectURL(r *http.Request, provider string) (string, error) {
	if s.config.RedirectURL != "" {
		return s.config.RedirectURL, nil
	}
	if r.Host == "" {
		return "", apperrors.ErrMissingHost
	}
	u := url.URL{
		Scheme:   getScheme(r),
		Host:     r.Host,
		Path:     RouteCallback,
		RawQuery: url.Values{"provider": {provider}}.Encode(),
	}
	return u.String(), nil
}

// requestedProvider returns the provider named by the query, defaulting to the
// configured one. Any other provider is rejected.
func (s *Server) requestedProvider(r *http.Request) (string, error) {
	provider := r.URL.Query().Get("provider")
	if provider == "" {
		return s.config.Provider, nil
	}
	if provider != s.config.Provider {
		return "", apperrors.Wrapf(apperrors.ErrUnknownProvider, "unexpected provider %q", provider)
	}
	return provider, nil
}

// openerOrigin is the origin of the page that opened the popup, taken from the
// Origin header or failing that the Referer. Empty when neither is usable.
func openerOrigin(r *http.Request) string {
	if origin := r.Header.Get("Origin"); origin != "" {
		return origin
	}
	referer, err := url.Parse(r.Header.Get("Referer"))
	if err != nil || referer.Scheme == "" || referer.Host == "" {
		return ""
	}
	return referer.Scheme + "://" + referer.Host
}

// requestedScopes returns the scopes named by the query, or nil to keep the
// configured scopes.
func requestedScopes(r *http.Request) []string {
	scopes := config.ParseScopes(r.URL.Query().Get("scope"))
	if len(scopes) == 0 {
		return nil
	}
	return scopes
}
