// Package routes wires the cart API's middleware chain and endpoints.
package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hsallam/matjar-pos/api/controllers"
	"github.com/hsallam/matjar-pos/api/controllers/poscart"
	"github.com/hsallam/matjar-pos/api/middleware"
	"github.com/hsallam/matjar-pos/internal/carts"
	"github.com/hsallam/matjar-pos/pkg/config"
	"github.com/hsallam/matjar-pos/pkg/logger"
	"github.com/hsallam/matjar-pos/pkg/metrics"
	"github.com/hsallam/matjar-pos/pkg/redis"
)

// Dependencies carries everything the router needs. Idempotency and Pingers
// may be nil when the backing service is disabled.
type Dependencies struct {
	Config      *config.Config
	Logger      *logger.Logger
	CartService carts.Service
	Idempotency redis.IdempotencyStore
	Registry    *prometheus.Registry
	DBPinger    controllers.Pinger
	RedisPinger controllers.Pinger
}

// New assembles the HTTP router.
func New(deps Dependencies) *chi.Mux {
	logg := deps.Logger
	httpMetrics := metrics.NewHTTPMetrics(deps.Registry)

	r := chi.NewRouter()
	r.Use(middleware.RequestID(logg))
	r.Use(middleware.Recoverer(logg))
	r.Use(middleware.Logging(logg, httpMetrics))

	r.Get("/health/live", controllers.Live())
	r.Get("/health/ready", controllers.Ready(logg, map[string]controllers.Pinger{
		"postgres": deps.DBPinger,
		"redis":    deps.RedisPinger,
	}))
	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/pos-cart", func(r chi.Router) {
		if deps.Config != nil {
			r.Use(middleware.Auth(deps.Config.JWT, logg))
		}
		r.Use(middleware.Idempotency(deps.Idempotency, logg))

		svc := deps.CartService
		r.Post("/{id}", poscart.Create(svc, logg))
		r.Get("/{id}", poscart.ListByStore(svc, logg))
		r.Get("/cart/{id}", poscart.Get(svc, logg))
		r.Delete("/{id}", poscart.Delete(svc, logg))

		r.Post("/{id}/add", poscart.AddItem(svc, logg))
		r.Put("/{id}/item/{itemID}", poscart.UpdateItem(svc, logg))
		r.Delete("/{id}/item/{itemID}", poscart.RemoveItem(svc, logg))
		r.Put("/{id}/customer", poscart.SetCustomer(svc, logg))
		r.Put("/{id}/discount", poscart.ApplyDiscount(svc, logg))
		r.Post("/{id}/clear", poscart.Clear(svc, logg))
		r.Post("/{id}/complete", poscart.Complete(svc, logg))
	})

	return r
}
