package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is one entry in a conversation. Immutable once appended except for
// the read flag, which only ever flips false -> true.
type Message struct {
	ID         primitive.ObjectID `bson:"id" json:"id"`
	SenderID   primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	ReceiverID primitive.ObjectID `bson:"receiver_id" json:"receiver_id"`
	Body       string             `bson:"body" json:"body"`
	Read       bool               `bson:"read" json:"read"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// Conversation holds the append-only message log for one user pair. The
// document id is the canonical pair key, so the array order is the insertion
// order and lookups are direction-independent.
type Conversation struct {
	Key      string    `bson:"_id" json:"key"`
	Messages []Message `bson:"messages" json:"messages"`
}
