package repository

import (
	"context"
	"fmt"

	"github.com/Priyan2307/ShopBuddy_Server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ConnectionRepository struct {
	collection *mongo.Collection
}

func NewConnectionRepository(db *mongo.Database) *ConnectionRepository {
	return &ConnectionRepository{
		collection: db.Collection("connections"),
	}
}

func (r *ConnectionRepository) AreConnected(ctx context.Context, u1, u2 primitive.ObjectID) (bool, error) {
	err := r.collection.FindOne(ctx, bson.M{"_id": u1, "buddies": u2}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check connection: %w", err)
	}
	return true, nil
}

func (r *ConnectionRepository) Neighbors(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var list models.ConnectionList
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&list)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch buddy list: %w", err)
	}
	return list.Buddies, nil
}

// Connect adds the edge on both sides. Idempotent: $addToSet avoids
// duplicates, so connecting an already-connected pair is a no-op. If the
// mirror write fails the first side is rolled back so the graph never keeps
// a one-sided edge.
func (r *ConnectionRepository) Connect(ctx context.Context, u1, u2 primitive.ObjectID) error {
	if u1 == u2 {
		return ErrSelfEdge
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": u1},
		bson.M{"$addToSet": bson.M{"buddies": u2}},
		opts,
	)
	if err != nil {
		return fmt.Errorf("failed to add buddy to %s: %w", u1.Hex(), err)
	}

	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": u2},
		bson.M{"$addToSet": bson.M{"buddies": u1}},
		opts,
	)
	if err != nil {
		if _, pullErr := r.collection.UpdateOne(ctx,
			bson.M{"_id": u1},
			bson.M{"$pull": bson.M{"buddies": u2}},
		); pullErr != nil {
			return fmt.Errorf("failed to add buddy to %s (rollback of %s failed: %v): %w", u2.Hex(), u1.Hex(), pullErr, err)
		}
		return fmt.Errorf("failed to add buddy to %s: %w", u2.Hex(), err)
	}

	return nil
}

// Disconnect removes the edge on both sides. Idempotent: $pull on a missing
// edge is a no-op. Conversation history is not touched. A failed mirror
// write restores the first side, so the pair stays either fully connected
// or fully removed.
func (r *ConnectionRepository) Disconnect(ctx context.Context, u1, u2 primitive.ObjectID) error {
	if u1 == u2 {
		return ErrSelfEdge
	}

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": u1},
		bson.M{"$pull": bson.M{"buddies": u2}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove buddy from %s: %w", u1.Hex(), err)
	}

	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": u2},
		bson.M{"$pull": bson.M{"buddies": u1}},
	)
	if err != nil {
		if _, addErr := r.collection.UpdateOne(ctx,
			bson.M{"_id": u1},
			bson.M{"$addToSet": bson.M{"buddies": u2}},
			options.Update().SetUpsert(true),
		); addErr != nil {
			return fmt.Errorf("failed to remove buddy from %s (restore of %s failed: %v): %w", u2.Hex(), u1.Hex(), addErr, err)
		}
		return fmt.Errorf("failed to remove buddy from %s: %w", u2.Hex(), err)
	}

	return nil
}
