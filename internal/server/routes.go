package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lewisedginton/storefront_chatbot/pkg/httpmiddleware"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	mw := httpmiddleware.DefaultConfig()
	mw.Logger = s.log
	mw.EnableLogging = true
	mw.Security = httpmiddleware.DefaultSecurityOptions(s.cfg.IsDevelopment())
	mw.CORS.AllowedOrigins = s.cfg.Security.CORSAllowedOrigins
	mw.CORS.AllowedHeaders = appendIfMissing(mw.CORS.AllowedHeaders, s.cfg.Security.UserIDHeader)
	mw.StripPrefix = s.cfg.Security.StripPrefix
	mw.EnableStripPrefix = s.cfg.Security.StripPrefix != ""
	// Websocket connections outlive any request timeout, so it is applied per group below.
	mw.EnableTimeout = false
	httpmiddleware.ApplyToRouter(r, mw)

	if s.deps.Metrics != nil {
		r.Use(s.deps.Metrics.HTTPMiddleware())
	}

	r.Get("/", s.indexHandler)
	if s.deps.Health != nil {
		s.deps.Health.Routes(r)
	}

	timeout := middleware.Timeout(s.cfg.HTTP.RequestTimeout)

	r.Route("/api/products", func(r chi.Router) {
		r.Use(timeout)
		r.Get("/", s.listProducts)
		r.Get("/categories", s.listCategories)
		r.Get("/brands", s.listBrands)
		r.Get("/popular", s.popularProducts)
		r.Get("/{id}", s.getProduct)
	})

	r.Route("/api/chat", func(r chi.Router) {
		r.Use(s.requireUser)
		r.Get("/ws", s.chatWebSocket)

		r.Group(func(r chi.Router) {
			r.Use(timeout)
			r.Post("/query", s.chatQuery)
			r.Get("/sessions", s.listSessions)
			r.Get("/sessions/{id}", s.getSession)
			r.Delete("/sessions/{id}", s.deleteSession)
		})
	})

	return r
}

func (s *Server) indexHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Storefront assistant API",
		"service": s.cfg.ServiceName,
		"version": s.cfg.Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func appendIfMissing(list []string, v string) []string {
	for _, item := range list {
		if http.CanonicalHeaderKey(item) == http.CanonicalHeaderKey(v) {
			return list
		}
	}
	return append(append([]string(nil), list...), v)
}
