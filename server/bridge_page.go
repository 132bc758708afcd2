package server

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-decap-oauth/decap"
	"github.com/rs/zerolog"
)

const (
	bridgeTemplateName = "callback.html"
	contentTypeHTML    = "text/html; charset=utf-8"
	nonceLength        = 18
)

// bridgePageData feeds templates/callback.html.
type bridgePageData struct {
	Nonce          string
	Provider       string
	Success        bool
	ErrorMessage   string
	Handshake      string
	Message        string
	ExpectedOrigin string
	AllowedOrigins []string
}

// renderBridge writes the page that hands msg to the opener window. When
// expectedOrigin is empty the page only answers origins on the allow-list.
func (s *Server) renderBridge(w http.ResponseWriter, r *http.Request, status int, msg decap.Message, expectedOrigin string) {
	nonce := generateRandomString(nonceLength)
	data := bridgePageData{
		Nonce:          nonce,
		Provider:       msg.Provider,
		Success:        msg.Status == decap.StatusSuccess,
		ErrorMessage:   msg.Error,
		Handshake:      decap.Handshake(msg.Provider),
		Message:        msg.String(),
		ExpectedOrigin: expectedOrigin,
		AllowedOrigins: s.config.Origins.List(),
	}

	var buf bytes.Buffer
	if err := s.bridge.Execute(&buf, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to render callback template")
		http.Error(w, "Failed to render callback page", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", contentTypeHTML)
	h.Set("Cache-Control", "no-store")
	h.Set("Pragma", "no-cache")
	h.Set("Referrer-Policy", "no-referrer")
	h.Set("Content-Security-Policy", fmt.Sprintf(
		"default-src 'none'; script-src 'nonce-%s'; base-uri 'none'; form-action 'none'; frame-ancestors 'none'", nonce))
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
