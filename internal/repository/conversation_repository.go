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

type ConversationRepository struct {
	collection *mongo.Collection
}

func NewConversationRepository(db *mongo.Database) *ConversationRepository {
	return &ConversationRepository{
		collection: db.Collection("conversations"),
	}
}

// AppendMessage pushes the message onto the conversation log, creating the
// document on first contact. $push preserves insertion order.
func (r *ConversationRepository) AppendMessage(ctx context.Context, key string, msg *models.Message) error {
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$push": bson.M{"messages": msg}},
		opts,
	)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

func (r *ConversationRepository) GetConversation(ctx context.Context, key string) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&conv)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversation: %w", err)
	}
	return &conv, nil
}

// MarkRead flips the read flag on every unread message addressed to the
// receiver. Idempotent: the array filter matches nothing on a second call.
func (r *ConversationRepository) MarkRead(ctx context.Context, key string, receiverID primitive.ObjectID) error {
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"m.receiver_id": receiverID, "m.read": false},
		},
	})

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$set": bson.M{"messages.$[m].read": true}},
		opts,
	)
	if err != nil {
		return fmt.Errorf("failed to mark messages as read: %w", err)
	}
	return nil
}
