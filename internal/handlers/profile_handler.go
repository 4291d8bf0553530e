package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Priyan2307/ShopBuddy_Server/internal/config"
	"github.com/Priyan2307/ShopBuddy_Server/internal/models"
	"github.com/Priyan2307/ShopBuddy_Server/internal/repository"
	"github.com/Priyan2307/ShopBuddy_Server/internal/services"
	jwtutil "github.com/Priyan2307/ShopBuddy_Server/pkg/jwt"
	"github.com/Priyan2307/ShopBuddy_Server/pkg/middleware"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileHandler handles HTTP requests for accounts and the profile
// directory.
type ProfileHandler struct {
	Service *services.ProfileService
	Config  *config.Config
}

func NewProfileHandler(service *services.ProfileService, cfg *config.Config) *ProfileHandler {
	return &ProfileHandler{
		Service: service,
		Config:  cfg,
	}
}

// RegisterProfileHandler creates a new account with its shopping profile.
func (h *ProfileHandler) RegisterProfileHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username    string             `json:"username"`
		Email       string             `json:"email"`
		Password    string             `json:"password"`
		Location    models.Location    `json:"location"`
		Preferences models.Preferences `json:"preferences"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.WithError(err).Warn("Failed to decode registration request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	profile := &models.Profile{
		Username:    body.Username,
		Email:       body.Email,
		Location:    body.Location,
		Preferences: body.Preferences,
	}

	created, err := h.Service.RegisterProfile(r.Context(), profile, body.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			respondServiceError(w, err)
			return
		}
		log.WithError(err).Warn("Failed to register profile")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.WithField("profileID", created.ID.Hex()).Info("Profile registered successfully")
	respondJSON(w, http.StatusCreated, created)
}

// LoginHandler authenticates and returns a JWT.
func (h *ProfileHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		log.WithError(err).Warn("Failed to decode login request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	profile, err := h.Service.Authenticate(r.Context(), credentials.Email, credentials.Password)
	if err != nil {
		log.WithField("email", credentials.Email).Warn("Authentication failed")
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	token, err := jwtutil.GenerateToken(profile.ID.Hex(), profile.Username, h.Config.JWTSecret, h.Config.TokenExpiry)
	if err != nil {
		log.WithError(err).Error("Failed to generate JWT token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	log.WithField("profileID", profile.ID.Hex()).Info("User logged in successfully")
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token":   token,
		"profile": profile,
	})
}

// GetProfileHandler fetches any profile by id (public projection for others).
func (h *ProfileHandler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid profile ID", http.StatusBadRequest)
		return
	}

	profile, err := h.Service.GetProfile(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if claims.UserID == profile.ID.Hex() {
		respondJSON(w, http.StatusOK, profile)
		return
	}
	respondJSON(w, http.StatusOK, profile.Public())
}

// UpdateProfileHandler lets a user change their own location and preferences.
func (h *ProfileHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	requestedID := mux.Vars(r)["id"]
	if requestedID != claims.UserID {
		log.WithFields(log.Fields{
			"requestedID": requestedID,
			"userID":      claims.UserID,
		}).Warn("Forbidden profile update attempt")
		http.Error(w, "Forbidden: You can only update your own profile", http.StatusForbidden)
		return
	}

	id, err := primitive.ObjectIDFromHex(requestedID)
	if err != nil {
		http.Error(w, "Invalid profile ID", http.StatusBadRequest)
		return
	}

	var body struct {
		Location    *models.Location    `json:"location"`
		Preferences *models.Preferences `json:"preferences"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	updated, err := h.Service.UpdateProfile(r.Context(), id, repository.ProfileUpdate{
		Location:    body.Location,
		Preferences: body.Preferences,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}
