package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"StoreApp/app/services"
)

// SupplierHandler serves supplier management endpoints.
type SupplierHandler struct {
	suppliers *services.SupplierService
	auth      *services.AuthService
}

// NewSupplierHandler creates a new supplier handler.
func NewSupplierHandler(suppliers *services.SupplierService, auth *services.AuthService) *SupplierHandler {
	return &SupplierHandler{suppliers: suppliers, auth: auth}
}

// RegisterRoutes mounts the supplier endpoints.
func (h *SupplierHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.auth))
		r.Get("/api/suppliers", h.List)
		r.Post("/api/suppliers", h.Create)
		r.Get("/api/suppliers/{id}", h.Get)
		r.Put("/api/suppliers/{id}", h.Update)
		r.Delete("/api/suppliers/{id}", h.Delete)
		r.Put("/api/suppliers/{id}/stock", h.DeductStock)
		r.Put("/api/suppliers/{id}/add-stock", h.AddStock)
	})
}

func parseID(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, services.InvalidArgumentf("invalid %s %q", name, raw)
	}
	return uint(id), nil
}

// List returns all suppliers.
func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.suppliers.List()
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, suppliers)
}

// Create inserts a supplier.
func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.SupplierInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}

	supplier, err := h.suppliers.Create(in)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusCreated, supplier)
}

// Get returns one supplier.
func (h *SupplierHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	supplier, err := h.suppliers.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, supplier)
}

// Update overwrites a supplier.
func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var in services.SupplierInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}

	supplier, err := h.suppliers.Update(id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, supplier)
}

// Delete removes a supplier.
func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.suppliers.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "supplier deleted"})
}

type stockAdjustment struct {
	Pieces float64 `json:"pieces"`
}

// DeductStock removes pieces from a supplier's stock.
func (h *SupplierHandler) DeductStock(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var adj stockAdjustment
	if err := decodeBody(r, &adj); err != nil {
		writeError(w, err)
		return
	}

	supplier, err := h.suppliers.DeductStock(id, adj.Pieces)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, supplier)
}

// AddStock adds pieces to a supplier's stock.
func (h *SupplierHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var adj stockAdjustment
	if err := decodeBody(r, &adj); err != nil {
		writeError(w, err)
		return
	}

	supplier, err := h.suppliers.AddStock(id, adj.Pieces)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, supplier)
}
