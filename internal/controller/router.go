package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: c.corsOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
		r.Get("/stats", c.getStats)
		r.Get("/ws", c.serveWS)
		r.Get("/invites/{invite-code}", c.getPartySummary)
		r.Route("/parties/{party-id}", func(r chi.Router) {
			r.Use(c.bearerAuthMw)
			r.Get("/messages", c.getPartyMessages)
		})
	})

	return r
}

func (c controller) corsOrigins() []string {
	if len(c.allowedOrigins) == 0 {
		return []string{"*"}
	}

	return c.allowedOrigins
}
