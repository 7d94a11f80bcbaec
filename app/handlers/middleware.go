package handlers

import (
	"net/http"
	"strings"

	"StoreApp/app/services"
)

// RequireAuth validates the Bearer token and attaches the caller to the
// request context.
func RequireAuth(auth *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				respond(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
				return
			}

			caller, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				respond(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
				return
			}

			ctx := services.ContextWithCaller(r.Context(), caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
