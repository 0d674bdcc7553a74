package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hsallam/matjar-pos/api/responses"
	"github.com/hsallam/matjar-pos/pkg/config"
	pkgerrors "github.com/hsallam/matjar-pos/pkg/errors"
	"github.com/hsallam/matjar-pos/pkg/logger"
)

// Auth validates an optional bearer token and records the admin identity in
// the request context. With no configured secret every request passes through
// anonymously, which is how single-terminal deployments run.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			raw := bearerToken(r)
			if raw == "" {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims := jwt.MapClaims{}
			parser := jwt.NewParser(
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
				jwt.WithIssuer(cfg.Issuer),
				jwt.WithExpirationRequired(),
			)
			if _, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
				return []byte(cfg.Secret), nil
			}); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid bearer token"))
				return
			}

			adminID, _ := claims.GetSubject()
			if adminID == "" {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnauthorized, "token has no subject"))
				return
			}

			ctx := context.WithValue(r.Context(), adminIDKey, adminID)
			if logg != nil {
				ctx = logg.WithField(ctx, "admin_id", adminID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
