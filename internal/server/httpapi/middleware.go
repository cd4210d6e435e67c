package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/socialfeed/internal/common"
	"github.com/dmitrijs2005/socialfeed/internal/logging"
	"github.com/dmitrijs2005/socialfeed/internal/server/auth"
	"github.com/go-chi/chi/v5/middleware"
)

// authenticate runs the gate on every request and stores the outcome in
// the request context. Requests are never rejected here; resolvers that
// need a principal ask for it.
func authenticate(gate *auth.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := gate.Identify(r.Header.Get(common.AuthorizationHeaderName))
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

// requestLogger writes one line per request.
func requestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				logger.Info(r.Context(), "request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
