package fixtures

import (
	"context"

	"github.com/Priyan2307/ShopBuddy_Server/internal/models"
	"github.com/Priyan2307/ShopBuddy_Server/internal/repository"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// demoPassword is the shared password for all seeded accounts.
const demoPassword = "shopbuddy123"

// SeedDemoProfiles inserts a set of demo shopper profiles. Intended for demo
// environments and manual testing only; it is never called during normal
// startup. Profiles already present (by email) are skipped.
func SeedDemoProfiles(ctx context.Context, store repository.ProfileStore) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	for _, p := range demoProfiles() {
		existing, err := store.GetProfileByEmail(ctx, p.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		p.HashedPassword = string(hashed)
		if _, err := store.CreateProfile(ctx, &p); err != nil {
			return err
		}
		logrus.WithField("email", p.Email).Info("Seeded demo profile")
	}

	return nil
}

func demoProfiles() []models.Profile {
	return []models.Profile{
		{
			Username: "priya_rs",
			Email:    "priya@demo.shopbuddy.in",
			Location: models.Location{City: "Coimbatore", Area: "RS Puram"},
			Preferences: models.Preferences{
				Categories:    []string{"electronics", "fashion"},
				Budget:        models.BudgetRange{Min: 1000, Max: 5000},
				ShoppingStyle: "casual",
			},
			Stats: models.ShopperStats{TotalTrips: 10, AverageRating: 4.5},
		},
		{
			Username: "arun_gn",
			Email:    "arun@demo.shopbuddy.in",
			Location: models.Location{City: "Coimbatore", Area: "Gandhipuram"},
			Preferences: models.Preferences{
				Categories:    []string{"electronics", "books"},
				Budget:        models.BudgetRange{Min: 2000, Max: 6000},
				ShoppingStyle: "casual",
			},
			Stats: models.ShopperStats{TotalTrips: 12, AverageRating: 4.8},
		},
		{
			Username: "meena_rsp",
			Email:    "meena@demo.shopbuddy.in",
			Location: models.Location{City: "Coimbatore", Area: "RS Puram"},
			Preferences: models.Preferences{
				Categories:    []string{"fashion", "home decor"},
				Budget:        models.BudgetRange{Min: 500, Max: 3000},
				ShoppingStyle: "bargain hunter",
			},
			Stats: models.ShopperStats{TotalTrips: 25, AverageRating: 4.2},
		},
		{
			Username: "karthik_che",
			Email:    "karthik@demo.shopbuddy.in",
			Location: models.Location{City: "Chennai", Area: "T Nagar"},
			Preferences: models.Preferences{
				Categories:    []string{"electronics", "sports"},
				Budget:        models.BudgetRange{Min: 3000, Max: 10000},
				ShoppingStyle: "focused",
			},
			Stats: models.ShopperStats{TotalTrips: 5, AverageRating: 3.9},
		},
		{
			Username: "divya_che",
			Email:    "divya@demo.shopbuddy.in",
			Location: models.Location{City: "Chennai", Area: "Velachery"},
			Preferences: models.Preferences{
				Categories:    []string{"books", "fashion", "groceries"},
				Budget:        models.BudgetRange{Min: 800, Max: 4000},
				ShoppingStyle: "casual",
			},
			Stats: models.ShopperStats{TotalTrips: 18, AverageRating: 4.6},
		},
	}
}
