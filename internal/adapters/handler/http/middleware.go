package http

import (
	"errors"
	"net/http"

	"github.com/vncsmyrnk/pollweb/internal/adapters/session/cookie"
	"github.com/vncsmyrnk/pollweb/internal/core/domain"
	"github.com/vncsmyrnk/pollweb/internal/core/ports"
	"github.com/vncsmyrnk/pollweb/internal/logging"
)

// Sessions binds a cookie-backed session store to each request and puts the
// restored session, if any, into the request context.
type Sessions struct {
	auth    ports.AuthService
	options cookie.Options
}

func NewSessions(auth ports.AuthService, options cookie.Options) *Sessions {
	return &Sessions{auth: auth, options: options}
}

func (s *Sessions) Store(w http.ResponseWriter, r *http.Request) ports.SessionStore {
	return cookie.New(w, r, s.options)
}

func (s *Sessions) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := s.auth.Current(s.Store(w, r))
		if err != nil {
			if !errors.Is(err, domain.ErrUnauthenticated) {
				logging.Log.Warnf("failed to restore session: %v", err)
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(domain.ContextWithSession(r.Context(), session)))
	})
}

// Require sends visitors without a session to the login page.
func (s *Sessions) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := domain.SessionFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
