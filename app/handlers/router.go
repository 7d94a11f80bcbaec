// Package handlers wires the HTTP surface: REST endpoints, the websocket
// upgrade and the health check.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"StoreApp/app/services"
	"StoreApp/app/websocket"
)

// Services bundles everything the router serves.
type Services struct {
	Auth       *services.AuthService
	Suppliers  *services.SupplierService
	Categories *services.CategoryService
	Sales      *services.SaleService
	Orders     *services.OrderService
	Hub        *websocket.Hub
}

// NewRouter builds the chi router with all endpoints mounted.
func NewRouter(s Services) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	NewAuthHandler(s.Auth).RegisterRoutes(r)
	NewSupplierHandler(s.Suppliers, s.Auth).RegisterRoutes(r)
	NewCategoryHandler(s.Categories, s.Auth).RegisterRoutes(r)
	NewSaleHandler(s.Sales, s.Orders, s.Auth).RegisterRoutes(r)

	r.Get("/ws", s.Hub.HandleWS)
	r.Get("/health", s.Hub.HandleHealth)

	return r
}
