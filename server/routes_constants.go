package server

// Route path constants
const (
	RouteAuth     = "/auth"
	RouteCallback = "/callback"
)
