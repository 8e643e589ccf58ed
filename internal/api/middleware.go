package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// withAuth wraps a handler with bearer token authentication.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// If no bearer token is configured, skip auth
		if s.cfg.AuthDisabled() {
			next(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			s.logger.Warn("missing authorization header", "remote_addr", r.RemoteAddr)
			writeErrorMessage(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		// Expect "Bearer <token>" format
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			s.logger.Warn("invalid authorization format", "remote_addr", r.RemoteAddr)
			writeErrorMessage(w, http.StatusUnauthorized, "invalid authorization format")
			return
		}

		if !s.tokenValid(parts[1]) {
			s.logger.Warn("invalid bearer token", "remote_addr", r.RemoteAddr)
			writeErrorMessage(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next(w, r)
	}
}

// withStreamAuth is withAuth for the WebSocket handshake. Browsers cannot set
// headers on it, so a token query parameter is accepted when the header is
// absent.
func (s *Server) withStreamAuth(next http.HandlerFunc) http.HandlerFunc {
	header := s.withAuth(next)
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AuthDisabled() || r.Header.Get("Authorization") != "" {
			header(w, r)
			return
		}

		token := r.URL.Query().Get("token")
		if token == "" {
			s.logger.Warn("missing stream token", "remote_addr", r.RemoteAddr)
			writeErrorMessage(w, http.StatusUnauthorized, "missing authorization header")
			return
		}
		if !s.tokenValid(token) {
			s.logger.Warn("invalid stream token", "remote_addr", r.RemoteAddr)
			writeErrorMessage(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next(w, r)
	}
}

func (s *Server) tokenValid(token string) bool {
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.Server.BearerToken)) == 1
}
