// Package httpapi serves the GraphQL endpoint over HTTP.
package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/socialfeed/internal/logging"
	"github.com/dmitrijs2005/socialfeed/internal/server/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

// Pinger reports store health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter mounts POST /graphql and GET /healthz.
func NewRouter(schema *graphql.Schema, gate *auth.Gate, store Pinger, allowedOrigins []string, logger logging.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", healthz(store, logger))
	r.With(authenticate(gate)).Post("/graphql", (&relay.Handler{Schema: schema}).ServeHTTP)

	return r
}

func healthz(store Pinger, logger logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := store.Ping(r.Context()); err != nil {
			logger.Warn(r.Context(), "health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("unavailable"))
			return
		}
		_, _ = w.Write([]byte("ok"))
	}
}
