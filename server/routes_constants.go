package server

// Paths served on the loopback redirect address. They must match the
// redirect and post-logout URLs registered with the identity provider.
const (
	RouteCallback  = "/callback"
	RouteLoggedOut = "/logged-out"
)
