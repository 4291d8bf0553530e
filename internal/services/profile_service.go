package services

import (
	"context"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"github.com/Priyan2307/ShopBuddy_Server/internal/models"
	"github.com/Priyan2307/ShopBuddy_Server/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ProfileService encapsulates account and profile directory operations.
type ProfileService struct {
	repo repository.ProfileStore
}

func NewProfileService(repo repository.ProfileStore) *ProfileService {
	return &ProfileService{repo: repo}
}

// RegisterProfile creates a new profile after hashing the password. Stats
// start at zero and accumulate as trips complete.
func (s *ProfileService) RegisterProfile(ctx context.Context, profile *models.Profile, password string) (*models.Profile, error) {
	if profile.Email == "" || profile.Username == "" || password == "" {
		return nil, fmt.Errorf("missing required profile fields")
	}

	if !emailRegex.MatchString(profile.Email) {
		return nil, fmt.Errorf("invalid email format")
	}

	existing, err := s.repo.GetProfileByEmail(ctx, profile.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}
	profile.HashedPassword = string(hashed)
	profile.Stats = models.ShopperStats{}

	created, err := s.repo.CreateProfile(ctx, profile)
	if err != nil {
		return nil, err
	}

	logrus.WithField("profileID", created.ID.Hex()).Info("Profile registered")
	return created, nil
}

// Authenticate checks the credentials and returns the matching profile.
func (s *ProfileService) Authenticate(ctx context.Context, email, password string) (*models.Profile, error) {
	profile, err := s.repo.GetProfileByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.HashedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return profile, nil
}

// GetProfile fetches a profile by id.
func (s *ProfileService) GetProfile(ctx context.Context, id primitive.ObjectID) (*models.Profile, error) {
	profile, err := s.repo.GetProfileByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// UpdateProfile applies location/preference changes for the owner.
func (s *ProfileService) UpdateProfile(ctx context.Context, id primitive.ObjectID, update repository.ProfileUpdate) (*models.Profile, error) {
	if err := s.repo.UpdateProfile(ctx, id, update); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, id)
}
