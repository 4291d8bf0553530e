package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BudgetRange is the amount a shopper is comfortable spending on a trip.
type BudgetRange struct {
	Min int `bson:"min" json:"min"`
	Max int `bson:"max" json:"max"`
}

type Location struct {
	City string `bson:"city" json:"city"`
	Area string `bson:"area" json:"area"`
}

// Preferences describe what and how a user likes to shop.
type Preferences struct {
	Categories    []string    `bson:"categories" json:"categories"`
	Budget        BudgetRange `bson:"budget" json:"budget"`
	ShoppingStyle string      `bson:"shopping_style" json:"shopping_style"`
}

// ShopperStats accumulate over completed trips.
type ShopperStats struct {
	TotalTrips    int     `bson:"total_trips" json:"total_trips"`
	AverageRating float64 `bson:"average_rating" json:"average_rating"`
}

// Profile represents a user account in ShopBuddy.
type Profile struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username       string             `bson:"username" json:"username"`
	Email          string             `bson:"email" json:"email"`
	HashedPassword string             `bson:"hashed_password" json:"-"`
	Location       Location           `bson:"location" json:"location"`
	Preferences    Preferences        `bson:"preferences" json:"preferences"`
	Stats          ShopperStats       `bson:"stats" json:"stats"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// PublicProfile is the projection of a profile shown to other users.
type PublicProfile struct {
	ID          primitive.ObjectID `json:"id"`
	Username    string             `json:"username"`
	Location    Location           `json:"location"`
	Preferences Preferences        `json:"preferences"`
	Stats       ShopperStats       `json:"stats"`
}

// Public strips the private account fields from a profile.
func (p *Profile) Public() PublicProfile {
	return PublicProfile{
		ID:          p.ID,
		Username:    p.Username,
		Location:    p.Location,
		Preferences: p.Preferences,
		Stats:       p.Stats,
	}
}
