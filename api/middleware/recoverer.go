package middleware

import (
	"fmt"
	"net/http"

	"github.com/hsallam/matjar-pos/api/responses"
	pkgerrors "github.com/hsallam/matjar-pos/pkg/errors"
	"github.com/hsallam/matjar-pos/pkg/logger"
)

// Recoverer converts handler panics into 500 envelopes instead of dropped
// connections.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					err := pkgerrors.Wrap(
						pkgerrors.CodeInternal,
						fmt.Errorf("panic: %v", rec),
						"internal server error",
					)
					responses.WriteError(r.Context(), logg, w, err)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
