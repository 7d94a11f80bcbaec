package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"StoreApp/app/services"
)

func respond(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps service errors onto HTTP status codes. Insufficiency
// messages carry the supplier name and both quantities through unchanged.
func writeError(w http.ResponseWriter, err error) {
	var insufficient *services.InsufficientStockError

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.As(err, &insufficient),
		errors.Is(err, services.ErrInvalidArgument),
		errors.Is(err, services.ErrInvalidState):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrConcurrencyConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
		respond(w, status, errorResponse{Error: "internal server error"})
		return
	}
	respond(w, status, errorResponse{Error: err.Error()})
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return services.InvalidArgumentf("invalid request body")
	}
	return nil
}
