// Package controllers holds the top-level HTTP handlers that are not tied to
// one resource.
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/hsallam/matjar-pos/api/responses"
	pkgerrors "github.com/hsallam/matjar-pos/pkg/errors"
	"github.com/hsallam/matjar-pos/pkg/logger"
)

// Pinger is anything the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Live reports process liveness.
func Live() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, "ok", map[string]string{"status": "live"})
	}
}

// Ready reports readiness by pinging the named dependencies. Nil pingers are
// skipped so optional backends (redis) do not fail the probe when disabled.
func Ready(logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		statuses := map[string]string{}
		for name, dep := range deps {
			if dep == nil {
				statuses[name] = "skipped"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				statuses[name] = "down"
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable").
						WithDetails(statuses))
				return
			}
			statuses[name] = "up"
		}
		responses.WriteSuccess(w, "ready", statuses)
	}
}
