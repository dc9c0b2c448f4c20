package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// CallbackHandler completes an authorization-code flow.
type CallbackHandler interface {
	HandleCallback(ctx context.Context, state, code string) (string, error)
}

// CallbackResult is what the waiting login command receives once the
// identity provider has redirected back.
type CallbackResult struct {
	ReturnURL string
	Err       error
}

// Server is the loopback listener the identity provider redirects the
// browser to after login and logout.
type Server struct {
	env      string
	mux      *http.ServeMux
	routes   []string
	callback CallbackHandler

	results    chan CallbackResult
	loggedOut  chan struct{}
	logoutOnce sync.Once
}

func New(env string, callback CallbackHandler) *Server {
	s := &Server{
		env:       env,
		mux:       http.NewServeMux(),
		callback:  callback,
		results:   make(chan CallbackResult, 1),
		loggedOut: make(chan struct{}),
	}
	s.initRoutes()
	s.logRoutes()
	return s
}

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteCallback, ChainMiddleware(s.OAuthCallbackHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteCallback, ChainMiddleware(s.OAuthCallbackHandler(), s.HTMLMiddleware()...)) // form_post response mode
	s.RegisterRouteHandler("GET "+RouteLoggedOut, ChainMiddleware(s.LoggedOutHandler(), s.HTMLMiddleware()...))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

// Serve handles requests on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Err(err).Msg("Callback server shutdown")
		}
	}()

	log.Debug().Str("addr", ln.Addr().String()).Msg("Callback server listening")
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.Serve: %w", err)
	}
	return nil
}

// WaitForCallback blocks until a callback has been handled or ctx is done.
func (s *Server) WaitForCallback(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-s.results:
		return res.ReturnURL, res.Err
	}
}

// LoggedOut is closed once the provider has redirected back after logout.
func (s *Server) LoggedOut() <-chan struct{} {
	return s.loggedOut
}

// signal hands res to the waiting command. Only the first result is kept.
func (s *Server) signal(res CallbackResult) {
	select {
	case s.results <- res:
	default:
		log.Debug().Msg("Callback result already pending, dropping")
	}
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Debug().Msgf("[%-19s] %s", displayMethod, path)
}
