package server

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-decap-oauth/internal/config"
	"github.com/jrsteele09/go-decap-oauth/provider"
	"github.com/jrsteele09/go-decap-oauth/state"
	"github.com/rs/zerolog/log"
)

type Server struct {
	mux      *http.ServeMux
	routes   []string
	config   *config.Config
	provider *provider.Provider
	states   *state.Signer
	bridge   *template.Template
}

func New(cfg *config.Config) (*Server, error) {
	states, err := state.NewSigner([]byte(cfg.StateSecret), cfg.StateTTL)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create state signer: %w", err)
	}

	bridge, err := ParseTemplate(bridgeTemplateName)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse %s: %w", bridgeTemplateName, err)
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		provider: provider.New(cfg),
		states:   states,
		bridge:   bridge,
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Routes lists the registered patterns in registration order.
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) logRoutes() {
	if !s.config.IsDev() {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			log.Info().Str("method", parts[0]).Str("path", parts[1]).Msg("route")
		} else {
			log.Info().Str("path", parts[0]).Msg("route")
		}
	}
}
