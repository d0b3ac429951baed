package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vncsmyrnk/pollweb/internal/logging"
)

func NewHandler(pollHandler *PollHandler, authHandler *AuthHandler, sessions *Sessions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logging.Log, NoColor: true}))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(sessions.Load)

		r.Get("/", authHandler.Landing)
		r.Get("/login", authHandler.LoginForm)
		r.Post("/login", authHandler.Login)
		r.Get("/register", authHandler.RegisterForm)
		r.Post("/register", authHandler.Register)
		r.Post("/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(sessions.Require)

			r.Get("/polls", pollHandler.ListPolls)
			r.Post("/polls/{id}/vote", pollHandler.Vote)
			r.Get("/create", pollHandler.CreateForm)
			r.Post("/create", pollHandler.Create)
			r.Get("/poll/{id}", pollHandler.GetPoll)
		})
	})

	return r
}
