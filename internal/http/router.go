// Package httpapi assembles the HTTP surface of the screening service.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registrar is implemented by handler packages that mount their own routes.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter wires all endpoints. Versioned API routes live under /v1;
// health and metrics sit at the root for probes and scrapers.
func NewRouter(registrars ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		for _, reg := range registrars {
			reg.Register(v1)
		}
	})
	return r
}
