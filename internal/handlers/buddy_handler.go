package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Priyan2307/ShopBuddy_Server/internal/services"
	"github.com/Priyan2307/ShopBuddy_Server/pkg/logger"
	"github.com/Priyan2307/ShopBuddy_Server/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BuddyHandler manages HTTP endpoints for buddy discovery, requests and
// connections.
type BuddyHandler struct {
	Service *services.BuddyService
}

func NewBuddyHandler(service *services.BuddyService) *BuddyHandler {
	return &BuddyHandler{Service: service}
}

// ListCandidatesHandler returns compatible buddy candidates, best match
// first. Filters come in as query parameters.
func (h *BuddyHandler) ListCandidatesHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	filters := services.CandidateFilters{
		Location: r.URL.Query().Get("location"),
		Category: r.URL.Query().Get("category"),
	}
	if raw := r.URL.Query().Get("minRating"); raw != "" {
		minRating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(w, "Invalid minRating", http.StatusBadRequest)
			return
		}
		filters.MinRating = minRating
	}

	candidates, err := h.Service.ListCandidates(r.Context(), userID, filters)
	if err != nil {
		logger.Log.Errorf("Failed to list candidates for %s: %v", claims.UserID, err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, candidates)
}

// SendRequestHandler sends a buddy request to the user in the path.
func (h *BuddyHandler) SendRequestHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	toID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	fromID, _ := primitive.ObjectIDFromHex(claims.UserID)

	var body struct {
		Message string `json:"message"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&body)
		defer r.Body.Close()
	}

	request, err := h.Service.SendRequest(r.Context(), fromID, toID, body.Message)
	if err != nil {
		logger.Log.Warnf("Failed to send buddy request from %s to %s: %v", claims.UserID, toID.Hex(), err)
		respondServiceError(w, err)
		return
	}

	logger.Log.Infof("User %s sent a buddy request to %s", claims.UserID, toID.Hex())
	respondJSON(w, http.StatusCreated, request)
}

// GetPendingRequestsHandler shows the caller's incoming requests.
func (h *BuddyHandler) GetPendingRequestsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	requests, err := h.Service.PendingRequests(r.Context(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to get pending requests for %s: %v", claims.UserID, err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, requests)
}

// AcceptRequestHandler accepts an incoming buddy request.
func (h *BuddyHandler) AcceptRequestHandler(w http.ResponseWriter, r *http.Request) {
	h.resolveRequest(w, r, true)
}

// DeclineRequestHandler declines an incoming buddy request.
func (h *BuddyHandler) DeclineRequestHandler(w http.ResponseWriter, r *http.Request) {
	h.resolveRequest(w, r, false)
}

func (h *BuddyHandler) resolveRequest(w http.ResponseWriter, r *http.Request, accept bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	requestID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	if accept {
		err = h.Service.AcceptRequest(r.Context(), requestID, userID)
	} else {
		err = h.Service.DeclineRequest(r.Context(), requestID, userID)
	}
	if err != nil {
		logger.Log.Warnf("Failed to respond to buddy request %s: %v", requestID.Hex(), err)
		respondServiceError(w, err)
		return
	}

	logger.Log.Infof("User %s responded to buddy request %s (accepted: %v)", claims.UserID, requestID.Hex(), accept)
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Buddy request response recorded",
	})
}

// GetBuddiesHandler returns the caller's connected buddies.
func (h *BuddyHandler) GetBuddiesHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	buddies, err := h.Service.GetBuddies(r.Context(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to fetch buddies for %s: %v", claims.UserID, err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, buddies)
}

// RemoveBuddyHandler removes the connection with the user in the path.
func (h *BuddyHandler) RemoveBuddyHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	otherID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	if err := h.Service.RemoveBuddy(r.Context(), userID, otherID); err != nil {
		logger.Log.Warnf("Failed to remove buddy %s for %s: %v", otherID.Hex(), claims.UserID, err)
		respondServiceError(w, err)
		return
	}

	logger.Log.Infof("User %s removed buddy %s", claims.UserID, otherID.Hex())
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Buddy removed",
	})
}

// ReportBuddyHandler records a report against the user in the path.
func (h *BuddyHandler) ReportBuddyHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	otherID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	var body struct {
		Reason string `json:"reason"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&body)
		defer r.Body.Close()
	}

	reference, err := h.Service.ReportBuddy(r.Context(), userID, otherID, body.Reason)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message":   "Report recorded",
		"reference": reference,
	})
}
