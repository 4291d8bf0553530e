package repository

import (
	"context"
	"errors"

	"github.com/Priyan2307/ShopBuddy_Server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrSelfEdge is returned when a graph mutation names the same user twice.
var ErrSelfEdge = errors.New("cannot connect a user to themselves")

// ProfileUpdate carries the profile fields a user may change after
// registration. Nil fields are left untouched.
type ProfileUpdate struct {
	Location    *models.Location
	Preferences *models.Preferences
}

// ProfileStore is the profile directory. The buddy core only reads from it;
// writes happen through registration and profile edits.
type ProfileStore interface {
	CreateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	GetProfileByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	GetProfilesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Profile, error)
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update ProfileUpdate) error
}

// ConnectionStore is the mirrored adjacency list of accepted buddy edges.
// Connect and Disconnect are idempotent and always apply to both sides.
type ConnectionStore interface {
	AreConnected(ctx context.Context, u1, u2 primitive.ObjectID) (bool, error)
	Neighbors(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
	Connect(ctx context.Context, u1, u2 primitive.ObjectID) error
	Disconnect(ctx context.Context, u1, u2 primitive.ObjectID) error
}

// RequestStore persists buddy requests. Lookups return nil without error when
// no record matches.
type RequestStore interface {
	CreateRequest(ctx context.Context, req *models.BuddyRequest) (*models.BuddyRequest, error)
	GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.BuddyRequest, error)
	FindPending(ctx context.Context, fromID, toID primitive.ObjectID) (*models.BuddyRequest, error)
	// ResolveRequest flips a pending request to the given terminal status.
	// Returns false when the request is not pending anymore.
	ResolveRequest(ctx context.Context, id primitive.ObjectID, status string) (bool, error)
	// RevertRequest puts a request back to pending. Compensation only.
	RevertRequest(ctx context.Context, id primitive.ObjectID) error
	PendingForReceiver(ctx context.Context, userID primitive.ObjectID) ([]models.BuddyRequest, error)
}

// ConversationStore persists one append-only message log per canonical pair
// key. GetConversation returns nil without error when no log exists yet.
type ConversationStore interface {
	AppendMessage(ctx context.Context, key string, msg *models.Message) error
	GetConversation(ctx context.Context, key string) (*models.Conversation, error)
	MarkRead(ctx context.Context, key string, receiverID primitive.ObjectID) error
}
