package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pasarantar/storefront/pkg/health"
	"github.com/pasarantar/storefront/pkg/middleware"
)

// RouterDeps carries everything the router needs.
type RouterDeps struct {
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Toast    *ToastHandler
	Health   *health.Handler
	Logger   *slog.Logger
}

// NewRouter assembles the HTTP routing tree with the standard middleware
// chain.
func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(deps.Logger))

	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RequireSession)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", deps.Cart.Get)
			r.Delete("/", deps.Cart.Clear)
			r.Post("/items", deps.Cart.AddItem)
			r.Put("/items/{productID}/{variantID}", deps.Cart.UpdateItem)
			r.Delete("/items/{productID}/{variantID}", deps.Cart.RemoveItem)
		})

		r.Post("/checkout", deps.Checkout.Submit)

		r.Route("/toast", func(r chi.Router) {
			r.Get("/", deps.Toast.Get)
			r.Delete("/", deps.Toast.Dismiss)
		})
	})

	return r
}
