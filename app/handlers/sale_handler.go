package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"StoreApp/app/models"
	"StoreApp/app/services"
)

// SaleHandler serves the sale and order endpoints.
type SaleHandler struct {
	sales  *services.SaleService
	orders *services.OrderService
	auth   *services.AuthService
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(sales *services.SaleService, orders *services.OrderService, auth *services.AuthService) *SaleHandler {
	return &SaleHandler{sales: sales, orders: orders, auth: auth}
}

// RegisterRoutes mounts the sale endpoints. Selling requires a token; order
// listing and status updates are open to the dashboard.
func (h *SaleHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/sales/orders", h.ListOrders)
	r.Put("/api/sales/orders/{orderId}/status", h.UpdateStatus)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.auth))
		r.Post("/api/sales/sell/{categoryId}/products/{productId}", h.Sell)
	})
}

// ListOrders returns all orders, newest first.
func (h *SaleHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List()
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, orders)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves an order to a new status.
func (h *SaleHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseID(r, "orderId")
	if err != nil {
		writeError(w, err)
		return
	}

	var req statusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	order, err := h.orders.UpdateStatus(orderID, models.OrderStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, order)
}

// Sell processes a sale of one product.
func (h *SaleHandler) Sell(w http.ResponseWriter, r *http.Request) {
	categoryID, err := parseID(r, "categoryId")
	if err != nil {
		writeError(w, err)
		return
	}
	productID, err := parseID(r, "productId")
	if err != nil {
		writeError(w, err)
		return
	}

	var req services.SaleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.sales.Sell(r.Context(), categoryID, productID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, result)
}
