package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/vncsmyrnk/pollweb/internal/core/domain"
	"github.com/vncsmyrnk/pollweb/internal/core/ports"
	"github.com/vncsmyrnk/pollweb/internal/logging"
)

type AuthHandler struct {
	authService ports.AuthService
	sessions    *Sessions
	views       *Views
}

func NewAuthHandler(authService ports.AuthService, sessions *Sessions, views *Views) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		views:       views,
	}
}

type authForm struct {
	Action string
	Name   string
	Error  string
}

func (h *AuthHandler) Landing(w http.ResponseWriter, r *http.Request) {
	h.views.render(w, r, http.StatusOK, "landing", page{Title: "Welcome"})
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := domain.SessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/polls", http.StatusSeeOther)
		return
	}
	h.views.render(w, r, http.StatusOK, "auth", page{Title: "Log in", Data: authForm{Action: "/login"}})
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := domain.SessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/polls", http.StatusSeeOther)
		return
	}
	h.views.render(w, r, http.StatusOK, "auth", page{Title: "Sign up", Data: authForm{Action: "/register"}})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, "Log in", "/login", h.authService.Login)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, "Sign up", "/register", h.authService.Register)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(h.sessions.Store(w, r)); err != nil {
		logging.Log.Errorf("logout failed: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type authFunc func(ctx context.Context, store ports.SessionStore, creds ports.Credentials) (*domain.Session, error)

func (h *AuthHandler) authenticate(w http.ResponseWriter, r *http.Request, title, action string, fn authFunc) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	creds := ports.Credentials{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Password: r.FormValue("password"),
	}
	form := authForm{Action: action, Name: creds.Name}
	if creds.Name == "" || creds.Password == "" {
		form.Error = "Name and password are required"
		h.views.render(w, r, http.StatusBadRequest, "auth", page{Title: title, Data: form})
		return
	}

	session, err := fn(r.Context(), h.sessions.Store(w, r), creds)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			status = http.StatusUnauthorized
			form.Error = "Invalid name or password"
		case errors.Is(err, domain.ErrUserExists):
			status = http.StatusConflict
			form.Error = "That name is already taken"
		default:
			form.Error = err.Error()
		}
		logging.Log.Warnf("%s failed for %q: %v", action, creds.Name, err)
		h.views.render(w, r, status, "auth", page{Title: title, Data: form})
		return
	}

	logging.Log.Infof("%q signed in", session.Name)
	http.Redirect(w, r, "/polls", http.StatusSeeOther)
}
