package server

import (
	"net/http"

	"github.com/jrsteele09/go-decap-oauth/decap"
	apperrors "github.com/jrsteele09/go-decap-oauth/internal/errors"
	"github.com/jrsteele09/go-decap-oauth/provider"
	"github.com/jrsteele09/go-decap-oauth/state"
	"github.com/rs/zerolog"
)

// OAuthCallbackHandler receives the provider's redirect (GET /callback),
// exchanges the code and hands the result to the opener window.
func (s *Server) OAuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context())
		query := r.URL.Query()

		providerName, err := s.requestedProvider(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var claims *state.Claims
		var stateErr error
		if raw := query.Get("state"); raw != "" {
			claims, stateErr = s.states.Verify(raw, providerName)
		} else if s.config.RequireState {
			stateErr = apperrors.Wrapf(apperrors.ErrInvalidState, "state is required")
		}

		origin := r.Header.Get("Origin")
		if origin == "" && claims != nil {
			origin = claims.Origin
		}
		if origin != "" && !s.config.Origins.IsAllowedOrigin(origin) {
			logger.Warn().Str("origin", origin).Msg("Callback: untrusted origin")
			http.Error(w, apperrors.ErrUntrustedOrigin.Error(), http.StatusForbidden)
			return
		}

		fail := func(status int, message string) {
			s.renderBridge(w, r, status, decap.Failure(providerName, message), origin)
		}

		if stateErr != nil {
			logger.Warn().Err(stateErr).Msg("Callback: rejected state")
			fail(http.StatusBadRequest, apperrors.ErrInvalidState.Error())
			return
		}

		if errorParam := query.Get("error"); errorParam != "" {
			message := errorParam
			if desc := query.Get("error_description"); desc != "" {
				message += ": " + desc
			}
			logger.Info().Err(apperrors.ErrAuthorizationDenied).Str("error", errorParam).Msg("Callback: provider returned an error")
			fail(http.StatusBadRequest, message)
			return
		}

		code := query.Get("code")
		if code == "" {
			fail(http.StatusBadRequest, apperrors.ErrMissingCode.Error())
			return
		}

		redirectURL, err := s.redirectURL(r, providerName)
		if err != nil {
			fail(http.StatusBadRequest, err.Error())
			return
		}

		token, err := s.provider.Exchange(r.Context(), code, redirectURL)
		if err != nil {
			logger.Err(err).Str("provider", providerName).Msg("Callback: token exchange failed")
			fail(http.StatusBadGateway, provider.ErrorDescription(err))
			return
		}

		s.renderBridge(w, r, http.StatusOK, decap.Success(providerName, token.AccessToken), origin)
	}
}
