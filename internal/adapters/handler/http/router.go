package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/peervote/api/internal/core/ports"
)

type Handlers struct {
	Auth      *AuthHandler
	User      *UserHandler
	Session   *SessionHandler
	Vote      *VoteHandler
	Report    *ReportHandler
	Parameter *ParameterHandler
}

func NewHandler(h Handlers, authService ports.AuthService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.Refresh)
			r.Post("/logout", h.Auth.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireActor(authService))

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", h.User.GetMe)
				r.Get("/", h.User.List)
			})

			r.Route("/parameters", func(r chi.Router) {
				r.Get("/", h.Parameter.ListActive)
				r.Post("/", h.Parameter.Create)
				r.Patch("/{id}", h.Parameter.SetActive)
			})

			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", h.Session.Create)
				r.Get("/", h.Session.List)
				r.Get("/{id}", h.Session.Get)
				r.Post("/{id}/participants", h.Session.AddParticipants)
				r.Post("/{id}/start", h.Session.Start)
				r.Post("/{id}/close", h.Session.Close)
				r.Put("/{id}/votes", h.Vote.Submit)
				r.Get("/{id}/my-votes", h.Vote.MyVotes)
				r.Get("/{id}/report", h.Report.SessionReport)
			})

			r.Get("/overview", h.Report.AdminOverview)
			r.Get("/dashboard", h.Report.Dashboard)
		})
	})

	return r
}
