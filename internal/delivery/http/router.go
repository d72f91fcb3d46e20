package http //nolint:revive // directory-based package name, imported with alias

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const (
	requestTimeout = 30 * time.Second
	corsMaxAge     = 300
)

func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	}))

	r.Get("/", h.HandleHome)
	r.Get("/ping", h.HandlePing)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/pix", h.HandleCreatePix)
		r.Get("/status/{id}", h.HandleStatus)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/todas", h.HandleListCharges)
			r.Get("/confirmar/{id}", h.HandleConfirm)
			r.Post("/confirmar/{id}", h.HandleConfirm)
		})
	})

	return r
}
