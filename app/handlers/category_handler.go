package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"StoreApp/app/services"
)

// CategoryHandler serves catalog management endpoints.
type CategoryHandler struct {
	categories *services.CategoryService
	auth       *services.AuthService
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(categories *services.CategoryService, auth *services.AuthService) *CategoryHandler {
	return &CategoryHandler{categories: categories, auth: auth}
}

// RegisterRoutes mounts the catalog endpoints. Listing is public; writes and
// stats require a token.
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/categories", h.List)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.auth))
		r.Get("/api/categories/stats", h.Stats)
		r.Post("/api/categories", h.Create)
		r.Post("/api/categories/{categoryId}/products", h.AddProduct)
		r.Put("/api/categories/{categoryId}/products/{productId}", h.UpdateProduct)
		r.Delete("/api/categories/{categoryId}/products/{productId}", h.DeleteProduct)
	})
}

// List returns every category with its products.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List()
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, categories)
}

// Stats returns catalog counts.
func (h *CategoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.categories.Stats()
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, stats)
}

// Create inserts a category.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CategoryInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}

	category, err := h.categories.CreateCategory(in)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusCreated, category)
}

// AddProduct inserts a product into a category.
func (h *CategoryHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	categoryID, err := parseID(r, "categoryId")
	if err != nil {
		writeError(w, err)
		return
	}

	var in services.ProductInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}

	product, err := h.categories.AddProduct(categoryID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusCreated, product)
}

// UpdateProduct overwrites a product.
func (h *CategoryHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
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

	var in services.ProductInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}

	product, err := h.categories.UpdateProduct(categoryID, productID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, product)
}

// DeleteProduct removes a product.
func (h *CategoryHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
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

	if err := h.categories.DeleteProduct(categoryID, productID); err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "product deleted"})
}
