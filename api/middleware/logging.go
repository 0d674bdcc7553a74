package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hsallam/matjar-pos/pkg/logger"
	"github.com/hsallam/matjar-pos/pkg/metrics"
)

// Logging records one structured line per request and feeds the HTTP metrics.
// It uses chi's route pattern, not the raw path, to keep label cardinality
// bounded.
func Logging(logg *logger.Logger, httpMetrics *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}

			httpMetrics.Observe(r.Method, route, fmt.Sprintf("%d", ww.Status()), elapsed)

			if logg == nil {
				return
			}
			ctx := logg.WithFields(r.Context(), map[string]any{
				"method":      r.Method,
				"route":       route,
				"status":      ww.Status(),
				"bytes":       ww.BytesWritten(),
				"duration_ms": elapsed.Milliseconds(),
			})
			switch {
			case ww.Status() >= http.StatusInternalServerError:
				logg.Error(ctx, "request failed", nil)
			case ww.Status() >= http.StatusBadRequest:
				logg.Warn(ctx, "request rejected")
			default:
				logg.Info(ctx, "request completed")
			}
		})
	}
}
