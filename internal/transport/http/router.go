package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"slotbook/backend/internal/auth"
)

// NewRouter wires the public and authenticated API surface.
func NewRouter(bookingsH *BookingsHandler, authH *AuthHandler, tokens *auth.TokenManager) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/signup", authH.SignUp)
		r.Post("/auth/login", authH.Login)
		r.Get("/availability/{date}", bookingsH.Availability)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(tokens))

			r.Get("/auth/me", authH.Me)
			r.Get("/users", authH.ListUsers)

			r.Post("/bookings", bookingsH.Create)
			r.Get("/bookings", bookingsH.ListAll)
			r.Get("/bookings/mine", bookingsH.ListMine)
			r.Delete("/bookings/{id}", bookingsH.Cancel)
		})
	})

	return r
}
