package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"StoreApp/app/models"
	"StoreApp/app/services"
)

// AuthHandler serves login and profile endpoints.
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRoutes mounts the auth endpoints.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/auth/login", h.Login)
	r.Get("/api/auth/public-profile", h.PublicProfile)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.auth))
		r.Get("/api/auth/profile", h.GetProfile)
		r.Put("/api/auth/profile", h.UpdateProfile)
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login exchanges credentials for a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	token, user, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// GetProfile returns the caller's profile.
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	caller, _ := services.CallerFromContext(r.Context())
	user, err := h.auth.GetProfile(caller.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, user)
}

// UpdateProfile overwrites the caller's profile.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, _ := services.CallerFromContext(r.Context())

	var in services.ProfileInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.UpdateProfile(caller.Username, in)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, user)
}

// PublicProfile returns the storefront identity without authentication.
func (h *AuthHandler) PublicProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.auth.GetPublicProfile()
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, profile)
}
