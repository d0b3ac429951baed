package cookie

import (
	"net/http"
	"time"

	"github.com/vncsmyrnk/pollweb/internal/core/ports"
)

const DefaultName = "jwt_token"

type Options struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// Store keeps the session token in a cookie. It is bound to a single request
// and its response.
type Store struct {
	opts Options
	w    http.ResponseWriter
	r    *http.Request
}

var _ ports.SessionStore = (*Store)(nil)

func New(w http.ResponseWriter, r *http.Request, opts Options) *Store {
	if opts.Name == "" {
		opts.Name = DefaultName
	}
	return &Store{opts: opts, w: w, r: r}
}

func (s *Store) Get() (string, bool, error) {
	c, err := s.r.Cookie(s.opts.Name)
	if err != nil || c.Value == "" {
		return "", false, nil
	}
	return c.Value, true, nil
}

func (s *Store) Set(token string) error {
	c := &http.Cookie{
		Name:     s.opts.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if s.opts.MaxAge > 0 {
		c.MaxAge = int(s.opts.MaxAge.Seconds())
	}
	http.SetCookie(s.w, c)
	return nil
}

func (s *Store) Clear() error {
	http.SetCookie(s.w, &http.Cookie{
		Name:     s.opts.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
