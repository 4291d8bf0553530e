package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ConnectionList is one user's side of the buddy graph. Every edge is
// mirrored: if A lists B, B lists A.
type ConnectionList struct {
	UserID  primitive.ObjectID   `bson:"_id" json:"user_id"`
	Buddies []primitive.ObjectID `bson:"buddies" json:"buddies"`
}

// PairKey returns the canonical direction-independent key for a user pair,
// built by sorting the two ids before joining them.
func PairKey(a, b primitive.ObjectID) string {
	x, y := a.Hex(), b.Hex()
	if x > y {
		x, y = y, x
	}
	return x + ":" + y
}
