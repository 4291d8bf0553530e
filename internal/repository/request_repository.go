package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Priyan2307/ShopBuddy_Server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RequestRepository struct {
	collection *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{
		collection: db.Collection("buddy_requests"),
	}
}

func (r *RequestRepository) CreateRequest(ctx context.Context, req *models.BuddyRequest) (*models.BuddyRequest, error) {
	req.CreatedAt = time.Now()
	req.Status = models.RequestStatusPending

	result, err := r.collection.InsertOne(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create buddy request: %w", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	req.ID = insertedID

	return req, nil
}

func (r *RequestRepository) GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.BuddyRequest, error) {
	var req models.BuddyRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch buddy request: %w", err)
	}
	return &req, nil
}

func (r *RequestRepository) FindPending(ctx context.Context, fromID, toID primitive.ObjectID) (*models.BuddyRequest, error) {
	filter := bson.M{
		"from_user_id": fromID,
		"to_user_id":   toID,
		"status":       models.RequestStatusPending,
	}

	var req models.BuddyRequest
	err := r.collection.FindOne(ctx, filter).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find pending request: %w", err)
	}
	return &req, nil
}

// ResolveRequest flips a request from pending to the given terminal status.
// The filter carries the pending precondition, so a request that was already
// resolved is never touched and the caller learns about it from the return.
func (r *RequestRepository) ResolveRequest(ctx context.Context, id primitive.ObjectID, status string) (bool, error) {
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.RequestStatusPending},
		bson.M{"$set": bson.M{"status": status}},
	).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to resolve buddy request: %w", err)
	}
	return true, nil
}

func (r *RequestRepository) RevertRequest(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": models.RequestStatusPending}},
	)
	if err != nil {
		return fmt.Errorf("failed to revert buddy request: %w", err)
	}
	return nil
}

// PendingForReceiver returns the receiver's open requests oldest first.
func (r *RequestRepository) PendingForReceiver(ctx context.Context, userID primitive.ObjectID) ([]models.BuddyRequest, error) {
	filter := bson.M{"to_user_id": userID, "status": models.RequestStatusPending}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find pending requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []models.BuddyRequest
	for cursor.Next(ctx) {
		var req models.BuddyRequest
		if err := cursor.Decode(&req); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, nil
}
