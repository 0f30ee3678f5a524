// Package api serves FCS files over HTTP: listing, inspection, channel and
// event access, and in-place channel renames, backed by pkg/blob storage.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cytolab/fcsio/pkg/blob"
)

// NewRouter wires the server's routes, middleware and instrumentation.
func NewRouter(server *Server) chi.Router {
	metrics := server.metrics

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API key authentication middleware for protected routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(metrics.InstrumentAuthMiddleware(apiKeyMiddleware(server.config.APIKey)))

		// Health check
		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))

		// FCS file operations
		r.Get("/files", metrics.InstrumentHandler("GET", "/api/v1/files", server.handleListFiles))
		r.Get("/files/{name}", metrics.InstrumentHandler("GET", "/api/v1/files/{name}", server.handleGetFile))
		r.Get("/files/{name}/channels", metrics.InstrumentHandler("GET", "/api/v1/files/{name}/channels", server.handleGetChannels))
		r.Get("/files/{name}/events", metrics.InstrumentHandler("GET", "/api/v1/files/{name}/events", server.handleGetEvents))
		r.Post("/files/{name}/rename", metrics.InstrumentHandler("POST", "/api/v1/files/{name}/rename", server.handleRename))
	})

	return r
}

// StartServer starts the HTTP server with all routes configured
func StartServer(store *blob.Store, config ServerConfig) error {
	metrics := NewMetrics()
	server := NewServer(store, config, metrics)
	r := NewRouter(server)

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	fmt.Printf("Starting fcsio REST API server on %s\n", addr)
	fmt.Printf("Metrics available at: http://%s/metrics\n", addr)
	return http.ListenAndServe(addr, r)
}
