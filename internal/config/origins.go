package config

import (
	"net/url"
	"sort"
	"strings"
)

// WildcardOrigin allows any origin.
const WildcardOrigin = "*"

// AllowedOrigins is the set of CMS origins permitted to receive tokens.
//
// An entry is one of:
//   - a full origin, "https://cms.example.com"
//   - a bare host, "cms.example.com" (any scheme, port must match if given)
//   - a subdomain wildcard, "*.example.com"
//   - "*"
type AllowedOrigins map[string]struct{}
type nullValue = struct{}

func NewAllowedOrigins(entries ...string) AllowedOrigins {
	a := AllowedOrigins{}
	for _, e := range entries {
		e = normaliseOrigin(e)
		if e == "" {
			continue
		}
		a[e] = nullValue{}
	}
	return a
}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	origin = normaliseOrigin(origin)
	if origin == "" || origin == "null" {
		return false
	}
	if _, ok := a[WildcardOrigin]; ok {
		return true
	}
	if _, ok := a[origin]; ok {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if _, ok := a[u.Host]; ok {
		return true
	}
	for entry := range a {
		if !strings.HasPrefix(entry, "*.") {
			continue
		}
		suffix := entry[1:]
		if strings.HasSuffix(u.Host, suffix) || strings.HasSuffix(u.Hostname(), suffix) {
			return true
		}
	}
	return false
}

// List returns the entries sorted, for embedding in the bridge page.
func (a AllowedOrigins) List() []string {
	origins := make([]string, 0, len(a))
	for k := range a {
		origins = append(origins, k)
	}
	sort.Strings(origins)
	return origins
}

func (a AllowedOrigins) String() string {
	return strings.Join(a.List(), ", ")
}

func normaliseOrigin(origin string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(origin)), "/")
}
