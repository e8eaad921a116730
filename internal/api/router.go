// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires the handlers and middleware into a chi mux.
type Router struct {
	handlers   *Handlers
	middleware *Middleware
	mux        *chi.Mux
}

// NewRouter creates the HTTP router.
//
// Global middleware order: request ID, real IP, panic recovery, CORS,
// metrics. Rate limiting applies to the /api/v1 group only, so /metrics
// stays reachable for scrapers.
func NewRouter(handlers *Handlers, middleware *Middleware) *Router {
	router := &Router{
		handlers:   handlers,
		middleware: middleware,
		mux:        chi.NewRouter(),
	}
	router.setupRoutes()
	return router
}

// ServeHTTP implements http.Handler.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.mux.ServeHTTP(w, r)
}

func (rt *Router) setupRoutes() {
	r := rt.mux

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(rt.middleware.CORS())
	r.Use(Instrumentation())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.middleware.RateLimit())

		r.Get("/health", rt.handlers.Health)

		r.Route("/recommendations", func(r chi.Router) {
			r.Post("/ml", rt.handlers.MLRecommendations)
			r.Post("/mood", rt.handlers.MoodRecommendations)
			r.Get("/trending", rt.handlers.TrendingRecommendations)
		})

		r.Route("/books", func(r chi.Router) {
			r.Get("/search", rt.handlers.SearchBooks)
			r.Get("/{workID}", rt.handlers.GetBook)
		})

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/profile", rt.handlers.GetProfile)
			r.Put("/profile", rt.handlers.PutProfile)
			r.Post("/history", rt.handlers.AddHistory)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, codeNotFound, "Endpoint not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, codeValidationError, "Method not allowed", nil)
	})
}
