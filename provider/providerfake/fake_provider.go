package providerfake

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// TokenRequest is what the fake token endpoint received.
type TokenRequest struct {
	Path        string
	GrantType   string
	Code        string
	RedirectURI string
	ClientID    string
	BasicAuth   bool
}

// Server is an in-process token endpoint that behaves like GitHub's: unknown
// codes are answered with HTTP 200 and an error body.
type Server struct {
	*httptest.Server

	clientID     string
	clientSecret string

	mu       sync.Mutex
	codes    map[string]string
	requests []TokenRequest
	delay    time.Duration
}

func New(clientID, clientSecret string) *Server {
	s := &Server{
		clientID:     clientID,
		clientSecret: clientSecret,
		codes:        make(map[string]string),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handleToken))
	return s
}

// AddCode registers a single-use code that exchanges for token.
func (s *Server) AddCode(code, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code] = token
}

// SetDelay makes every token response wait for d.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

func (s *Server) Requests() []TokenRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]TokenRequest(nil), s.requests...)
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	clientID, clientSecret, basic := r.BasicAuth()
	if !basic {
		clientID = r.PostForm.Get("client_id")
		clientSecret = r.PostForm.Get("client_secret")
	}

	s.mu.Lock()
	s.requests = append(s.requests, TokenRequest{
		Path:        r.URL.Path,
		GrantType:   r.PostForm.Get("grant_type"),
		Code:        r.PostForm.Get("code"),
		RedirectURI: r.PostForm.Get("redirect_uri"),
		ClientID:    clientID,
		BasicAuth:   basic,
	})
	delay := s.delay
	token, known := s.codes[r.PostForm.Get("code")]
	delete(s.codes, r.PostForm.Get("code"))
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if clientID != s.clientID || clientSecret != s.clientSecret {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":             "invalid_client",
			"error_description": "Client authentication failed.",
		})
		return
	}

	if !known {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":             "bad_verification_code",
			"error_description": "The code passed is incorrect or expired.",
		})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]string{
		"access_token": token,
		"token_type":   "bearer",
		"scope":        "repo",
	})
}
