package dice

import (
	"time"

	"github.com/KirkDiggler/rpg-features/internal/entities/features"
)

// RollAbilityScoresInput defines the request for rolling ability scores
type RollAbilityScoresInput struct {
	Method string // "4d6_drop_lowest" (default), "3d6", "4d6_reroll_1s"
}

// RollAbilityScoresOutput defines the response for rolling ability scores
type RollAbilityScoresOutput struct {
	Method string
	Scores features.AbilityScores
	Rolls  []*AbilityRoll
	// RollID and ExpiresAt are set when the roll was stored
	RollID    string
	ExpiresAt time.Time
}

// AbilityRoll records the dice behind one score, highest first
type AbilityRoll struct {
	Ability features.Ability
	Dice    []int
	Dropped []int
	Total   int
}

// GetRollInput defines the request for a stored roll
type GetRollInput struct {
	RollID string
}

// GetRollOutput is a stored roll
type GetRollOutput struct {
	RollID    string
	Method    string
	Scores    features.AbilityScores
	ExpiresAt time.Time
}
