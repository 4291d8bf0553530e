package services

import (
	"math"

	"github.com/Priyan2307/ShopBuddy_Server/internal/models"
)

// CompatibilityScore rates how well two profiles match for a joint shopping
// trip, from 0 (nothing in common) to 100. Pure and deterministic; every
// factor is computed from symmetric expressions, so the result does not
// depend on argument order.
//
// Weighting:
//   - same city +30, same city and area +20 more
//   - +10 per shopping category present in both profiles
//   - overlapping budget ranges +15
//   - identical shopping style +10
//   - trip counts within 5 of each other +10, within 15 +5
//   - average ratings within 0.5 +10, within 1.0 +5
func CompatibilityScore(a, b models.Profile) int {
	score := 0

	if a.Location.City != "" && a.Location.City == b.Location.City {
		score += 30
		if a.Location.Area != "" && a.Location.Area == b.Location.Area {
			score += 20
		}
	}

	score += 10 * sharedCategories(a.Preferences.Categories, b.Preferences.Categories)

	if budgetsOverlap(a.Preferences.Budget, b.Preferences.Budget) {
		score += 15
	}

	if a.Preferences.ShoppingStyle != "" && a.Preferences.ShoppingStyle == b.Preferences.ShoppingStyle {
		score += 10
	}

	tripDiff := a.Stats.TotalTrips - b.Stats.TotalTrips
	if tripDiff < 0 {
		tripDiff = -tripDiff
	}
	if tripDiff <= 5 {
		score += 10
	} else if tripDiff <= 15 {
		score += 5
	}

	ratingDiff := math.Abs(a.Stats.AverageRating - b.Stats.AverageRating)
	if ratingDiff <= 0.5 {
		score += 10
	} else if ratingDiff <= 1.0 {
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score
}

func sharedCategories(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	set := make(map[string]bool, len(a))
	for _, c := range a {
		set[c] = true
	}

	shared := 0
	seen := make(map[string]bool, len(b))
	for _, c := range b {
		if set[c] && !seen[c] {
			shared++
			seen[c] = true
		}
	}
	return shared
}

// budgetsOverlap treats an unset range (max 0) as overlapping with nothing.
func budgetsOverlap(a, b models.BudgetRange) bool {
	if a.Max <= 0 || b.Max <= 0 {
		return false
	}
	return a.Min <= b.Max && b.Min <= a.Max
}
