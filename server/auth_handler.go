package server

import (
	"net/http"

	"github.com/rs/zerolog"
)

// AuthHandler starts the login (GET /auth) by redirecting the popup to the
// provider's authorize endpoint.
func (s *Server) AuthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context())

		provider, err := s.requestedProvider(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		origin := openerOrigin(r)
		if origin != "" && !s.config.Origins.IsAllowedOrigin(origin) {
			logger.Warn().Str("origin", origin).Msg("Auth: untrusted origin")
			http.Error(w, "untrusted origin", http.StatusForbidden)
			return
		}

		redirectURL, err := s.redirectURL(r, provider)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		st, err := s.states.Issue(provider, origin)
		if err != nil {
			logger.Err(err).Msg("Auth: failed to issue state")
			http.Error(w, "failed to start authorization", http.StatusInternalServerError)
			return
		}

		authURL := s.provider.AuthCodeURL(st, redirectURL, requestedScopes(r))
		logger.Debug().Str("provider", provider).Str("redirect_uri", redirectURL).Msg("Auth: redirecting to provider")
		http.Redirect(w, r, authURL, http.StatusFound)
	}
}
