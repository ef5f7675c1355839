// Package rollsession stores rolled ability scores so several requests can
// preview features against the same character
package rollsession

import (
	"context"
	"time"

	"github.com/KirkDiggler/rpg-features/internal/entities/features"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=rollsessionmock github.com/KirkDiggler/rpg-features/internal/repositories/roll_session Repository

// RollSession is one rolled set of ability scores
type RollSession struct {
	ID     string
	Method string
	Scores features.AbilityScores
	Rolls  []Roll

	CreatedAt time.Time
	ExpiresAt time.Time
}

// Roll records the dice kept and dropped for one ability
type Roll struct {
	Ability features.Ability
	Dice    []int
	Dropped []int
	Total   int
}

// CreateInput contains parameters for creating a roll session
type CreateInput struct {
	Method string
	Scores features.AbilityScores
	Rolls  []Roll
	TTL    time.Duration // How long the session should live
}

// CreateOutput contains the result of creating a roll session
type CreateOutput struct {
	Session *RollSession
}

// GetInput contains parameters for retrieving a roll session
type GetInput struct {
	ID string
}

// GetOutput contains the result of retrieving a roll session
type GetOutput struct {
	Session *RollSession
}

// DeleteInput contains parameters for deleting a roll session
type DeleteInput struct {
	ID string
}

// DeleteOutput reports whether a session was removed
type DeleteOutput struct {
	Deleted bool
}

// Repository defines the interface for roll session storage operations
type Repository interface {
	// Create stores a new session under a generated ID with the specified TTL
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a session; expired sessions are NotFound
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Delete removes a session
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}
