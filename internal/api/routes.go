package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/waitlist/internal/auth"
	"github.com/mmynk/waitlist/internal/middleware"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	// Prefix mounts every route under a path such as "/api". Empty mounts at the root.
	Prefix         string
	AllowedOrigins []string
}

// NewRouter builds the HTTP handler. Waitlist routes require a bearer token;
// /health and /metrics do not.
func NewRouter(h *Handler, jwtManager *auth.JWTManager, opts RouterOptions) http.Handler {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "apikey", "x-client-info"},
		MaxAge:         300,
	}))

	routes := func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())

		r.Route("/waitlist", func(wr chi.Router) {
			wr.Use(middleware.RequireAuth(jwtManager))

			wr.Post("/signup", h.Signup)
			wr.Get("/stats", h.Stats)
			wr.Get("/export", h.Export)
			wr.Get("/export.csv", h.ExportCSV)
			wr.Get("/recent", h.Recent)
			wr.Post("/google-sheets-export", h.SheetExport)
		})
	}

	if opts.Prefix == "" {
		routes(r)
	} else {
		r.Route(opts.Prefix, routes)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
