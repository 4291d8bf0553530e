package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Priyan2307/ShopBuddy_Server/internal/services"
	"github.com/Priyan2307/ShopBuddy_Server/pkg/logger"
	"github.com/Priyan2307/ShopBuddy_Server/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatHandler manages HTTP endpoints for buddy conversations.
type ChatHandler struct {
	Service *services.ChatService
}

func NewChatHandler(service *services.ChatService) *ChatHandler {
	return &ChatHandler{Service: service}
}

func chatParticipants(r *http.Request) (userID, otherID primitive.ObjectID, ok bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		return userID, otherID, false
	}

	otherID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		return userID, otherID, false
	}

	userID, _ = primitive.ObjectIDFromHex(claims.UserID)
	return userID, otherID, true
}

// SendMessageHandler appends a message to the conversation with the buddy in
// the path.
func (h *ChatHandler) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	userID, otherID, ok := chatParticipants(r)
	if !ok {
		http.Error(w, "Unauthorized or invalid user ID", http.StatusBadRequest)
		return
	}

	var body struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	msg, err := h.Service.SendMessage(r.Context(), userID, otherID, body.Body)
	if err != nil {
		logger.Log.Warnf("Failed to send message from %s to %s: %v", userID.Hex(), otherID.Hex(), err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, msg)
}

// GetHistoryHandler returns the full conversation and marks the caller's
// received messages as read, the app's read-on-open behavior.
func (h *ChatHandler) GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID, otherID, ok := chatParticipants(r)
	if !ok {
		http.Error(w, "Unauthorized or invalid user ID", http.StatusBadRequest)
		return
	}

	messages, err := h.Service.GetHistory(r.Context(), userID, otherID)
	if err != nil {
		logger.Log.Errorf("Failed to fetch chat history for %s: %v", userID.Hex(), err)
		respondServiceError(w, err)
		return
	}

	if err := h.Service.MarkRead(r.Context(), userID, otherID); err != nil {
		logger.Log.Warnf("Failed to mark messages read for %s: %v", userID.Hex(), err)
	}

	respondJSON(w, http.StatusOK, messages)
}

// MarkReadHandler marks the caller's received messages in this conversation
// as read.
func (h *ChatHandler) MarkReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, otherID, ok := chatParticipants(r)
	if !ok {
		http.Error(w, "Unauthorized or invalid user ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.MarkRead(r.Context(), userID, otherID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Messages marked as read",
	})
}

// GetUnreadCountHandler returns how many unread messages the caller has in
// this conversation.
func (h *ChatHandler) GetUnreadCountHandler(w http.ResponseWriter, r *http.Request) {
	userID, otherID, ok := chatParticipants(r)
	if !ok {
		http.Error(w, "Unauthorized or invalid user ID", http.StatusBadRequest)
		return
	}

	count, err := h.Service.UnreadCount(r.Context(), userID, otherID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"unread": count})
}

// GetOverviewHandler lists the caller's conversations with last message and
// unread count.
func (h *ChatHandler) GetOverviewHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	overview, err := h.Service.GetOverview(r.Context(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to fetch chat overview for %s: %v", claims.UserID, err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, overview)
}
