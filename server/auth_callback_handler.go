package server

import (
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/rs/zerolog/log"
)

func (s *Server) OAuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// r.FormValue works for both query params and POST form data
		state := r.FormValue("state")
		code := r.FormValue("code")
		errorParam := r.FormValue("error")
		errorDesc := r.FormValue("error_description")

		if errorParam != "" {
			err := fmt.Errorf("%w: authorization failed: %s %s", errors.ErrUnauthorized, errorParam, errorDesc)
			log.Warn().Str("error", errorParam).Str("description", errorDesc).Msg("Authorization denied by provider")
			s.signal(CallbackResult{Err: err})
			renderPage(w, http.StatusBadRequest, pageData{Title: "Login failed", Message: errorDesc, Failed: true})
			return
		}

		if code == "" || state == "" {
			renderPage(w, http.StatusBadRequest, pageData{Title: "Login failed", Message: "Missing code or state parameter", Failed: true})
			return
		}

		returnURL, err := s.callback.HandleCallback(r.Context(), state, code)
		if errors.Is(err, errors.ErrInvalidState) {
			// stale or replayed redirect, keep waiting for the real one
			log.Warn().Msg("Callback with unknown state")
			renderPage(w, http.StatusBadRequest, pageData{Title: "Login failed", Message: "Invalid state parameter", Failed: true})
			return
		}
		if err != nil {
			log.Err(err).Msg("Callback failed")
			s.signal(CallbackResult{Err: err})
			renderPage(w, http.StatusInternalServerError, pageData{Title: "Login failed", Message: "Token exchange failed", Failed: true})
			return
		}

		s.signal(CallbackResult{ReturnURL: returnURL})
		renderPage(w, http.StatusOK, pageData{Title: "Logged in", Message: "Login complete."})
	}
}

func (s *Server) LoggedOutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logoutOnce.Do(func() { close(s.loggedOut) })
		renderPage(w, http.StatusOK, pageData{Title: "Logged out", Message: "You have been logged out."})
	}
}
