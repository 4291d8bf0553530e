package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Priyan2307/ShopBuddy_Server/internal/services"
	"github.com/Priyan2307/ShopBuddy_Server/pkg/logger"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondServiceError maps the service error kinds to HTTP statuses. Anything
// not in the taxonomy is a storage fault and becomes a 500.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrSelfRequest),
		errors.Is(err, services.ErrSelfConnection):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrNotRequestReceiver):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, services.ErrRequestNotFound),
		errors.Is(err, services.ErrProfileNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrAlreadyConnected),
		errors.Is(err, services.ErrDuplicateRequest),
		errors.Is(err, services.ErrRequestResolved),
		errors.Is(err, services.ErrNotConnected),
		errors.Is(err, services.ErrEmailTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		logger.Log.WithError(err).Error("Unexpected service error")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
