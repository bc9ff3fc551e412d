// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	gorillaws "github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zaidejaz/todaytix-scraper/internal/middleware"
	ws "github.com/zaidejaz/todaytix-scraper/internal/websocket"
)

// chiMiddleware adapts http.HandlerFunc middleware to chi's r.Use.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Router binds handlers, middleware and the websocket hub to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	hub           *ws.Hub
	upgrader      gorillaws.Upgrader
}

// NewRouter creates a Router. hub may be nil, which disables /ws.
func NewRouter(handler *Handler, mw *ChiMiddleware, hub *ws.Hub) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
		hub:           hub,
		upgrader:      ws.NewUpgrader(mw.config.CORSAllowedOrigins),
	}
}

// SetupChi builds the route tree.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(chiMiddleware(middleware.AccessLog(0)))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Handle("/metrics", promhttp.Handler())

	if router.hub != nil {
		r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			ws.ServeWS(router.hub, &router.upgrader, w, r)
		})
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/health", router.handler.Health)

		r.Route("/scrape", func(r chi.Router) {
			r.Post("/start", router.handler.ScrapeStart)
			r.Post("/stop", router.handler.ScrapeStop)
			r.Post("/trigger", router.handler.ScrapeTrigger)
			r.Get("/status", router.handler.ScrapeStatus)
		})

		r.Post("/showtimes/search", router.handler.ShowtimesSearch)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", router.handler.EventsList)
			r.Post("/", router.handler.EventsCreate)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", router.handler.EventsGet)
				r.Delete("/", router.handler.EventsDelete)
				r.Get("/rules", router.handler.RulesList)
				r.Post("/rules", router.handler.RulesCreate)
				r.Delete("/rules/{ruleID}", router.handler.RulesDelete)
			})
		})

		r.Route("/exclusions", func(r chi.Router) {
			r.Get("/", router.handler.ExclusionsList)
			r.Post("/", router.handler.ExclusionsCreate)
			r.Delete("/{id}", router.handler.ExclusionsDelete)
		})
	})

	return r
}
