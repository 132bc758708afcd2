package server

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteAuth, ChainMiddleware(s.AuthHandler(), s.StdMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteCallback, ChainMiddleware(s.OAuthCallbackHandler(), s.StdMiddleware()...))
}
