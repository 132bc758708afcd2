package config

import (
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/bitbucket"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/gitlab"
)

const DefaultProvider = "github"

type providerDefaults struct {
	endpoint oauth2.Endpoint
	scopes   string
}

var knownProviders = map[string]providerDefaults{
	"github":    {endpoint: github.Endpoint, scopes: "repo"},
	"gitlab":    {endpoint: gitlab.Endpoint, scopes: "api"},
	"bitbucket": {endpoint: bitbucket.Endpoint, scopes: "repository:write"},
}

// Endpoints holds the URL template parts for one provider.
type Endpoints struct {
	Hostname      string
	AuthorizePath string
	TokenPath     string
	Scopes        string
}

// ProviderEndpoints returns the built-in defaults for a provider.
func ProviderEndpoints(provider string) (Endpoints, bool) {
	d, ok := knownProviders[provider]
	if !ok {
		return Endpoints{}, false
	}
	authHost, authPath := splitEndpoint(d.endpoint.AuthURL)
	_, tokenPath := splitEndpoint(d.endpoint.TokenURL)
	return Endpoints{
		Hostname:      authHost,
		AuthorizePath: authPath,
		TokenPath:     tokenPath,
		Scopes:        d.scopes,
	}, true
}

func splitEndpoint(rawURL string) (string, string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", ""
	}
	return u.Scheme + "://" + u.Host, u.Path
}
