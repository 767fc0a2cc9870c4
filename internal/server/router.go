// Package server wires the HTTP routes and middleware.
package server

import (
	"context"
	"net/http"
	"time"

	"food-ordering-system/internal/auth"
	"food-ordering-system/internal/httpapi"
	"food-ordering-system/internal/logger"
	"food-ordering-system/internal/services/cart"
	"food-ordering-system/internal/services/catalog"
	"food-ordering-system/internal/services/order"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the router needs
type Deps struct {
	ServiceName   string
	MaxConcurrent int
	Store         Pinger
	Auth          auth.Authenticator
	Catalog       *catalog.Handler
	Cart          *cart.Handler
	Orders        *order.Handler
	Logger        *logger.Logger
}

// NewRouter builds the API handler
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(httpapi.WithLogging(d.Logger))
	r.Use(middleware.Recoverer)
	if d.MaxConcurrent > 0 {
		r.Use(middleware.Throttle(d.MaxConcurrent))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpapi.WriteErrorResponse(w, r, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpapi.WriteErrorResponse(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", healthCheck(d))

	r.Route("/foods", func(r chi.Router) {
		r.Get("/", d.Catalog.ListFoods)
		r.Get("/{id}/", d.Catalog.GetFood)
	})

	r.Group(func(r chi.Router) {
		r.Use(httpapi.RequireAuth(d.Auth, d.Logger))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", d.Cart.GetCart)
			r.Post("/add/", d.Cart.AddItem)
			r.Post("/remove/", d.Cart.RemoveItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/place/", d.Orders.PlaceOrder)
			r.Get("/user/", d.Orders.ListUserOrders)
			r.Get("/admin/", d.Orders.ListAllOrders)
			r.Get("/{id}/", d.Orders.GetOrder)
			r.Put("/{id}/", d.Orders.UpdateOrder)
		})
	})

	return r
}

// healthCheck handles GET /health
func healthCheck(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status, code := "ok", http.StatusOK
		if err := d.Store.Ping(ctx); err != nil {
			d.Logger.Error("health_check_failed", "Store ping failed", middleware.GetReqID(r.Context()), err, nil)
			status, code = "unhealthy", http.StatusServiceUnavailable
		}

		httpapi.WriteJSON(w, code, map[string]interface{}{
			"status":    status,
			"service":   d.ServiceName,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
