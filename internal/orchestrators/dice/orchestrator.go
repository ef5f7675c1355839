// Package dice rolls ability scores with the rpg-toolkit roller so feature
// descriptions can be previewed against a random character
package dice

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-features/internal/entities/features"
	"github.com/KirkDiggler/rpg-features/internal/errors"
	rollsession "github.com/KirkDiggler/rpg-features/internal/repositories/roll_session"
)

const (
	// Dice rolling methods
	MethodStandard = "4d6_drop_lowest"
	MethodClassic  = "3d6"
	MethodHeroic   = "4d6_reroll_1s"

	abilityDieSize = 6

	// rerollLimit bounds rerolls of a single die for MethodHeroic
	rerollLimit = 100
)

// Methods lists the supported rolling methods
var Methods = []string{MethodStandard, MethodClassic, MethodHeroic}

// Service defines the interface for dice operations
type Service interface {
	// RollAbilityScores rolls one score per ability, in features.Abilities order
	RollAbilityScores(ctx context.Context, input *RollAbilityScoresInput) (*RollAbilityScoresOutput, error)

	// GetRoll returns a stored roll. Unimplemented when no session store is configured.
	GetRoll(ctx context.Context, input *GetRollInput) (*GetRollOutput, error)
}

// Config holds the dependencies for the dice orchestrator
type Config struct {
	Roller dice.Roller
	// Sessions is optional; rolls are stored and given an ID when set
	Sessions rollsession.Repository
	// SessionTTL defaults to rollsession.DefaultTTL
	SessionTTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()

	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.SessionTTL < 0 {
		vb.Field("SessionTTL", "must not be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	roller     dice.Roller
	sessions   rollsession.Repository
	sessionTTL time.Duration
}

// NewOrchestrator creates a new dice orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		roller:     cfg.Roller,
		sessions:   cfg.Sessions,
		sessionTTL: cfg.SessionTTL,
	}, nil
}

// RollAbilityScores handles ability score rolling for a preview character
func (o *orchestrator) RollAbilityScores(ctx context.Context, input *RollAbilityScoresInput) (*RollAbilityScoresOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	method := input.Method
	if method == "" {
		method = MethodStandard // Default to 4d6 drop lowest
	}

	var roll func() (*AbilityRoll, error)
	switch method {
	case MethodStandard:
		roll = func() (*AbilityRoll, error) { return o.rollDropLowest(4) }
	case MethodClassic:
		roll = func() (*AbilityRoll, error) { return o.rollDropLowest(3) }
	case MethodHeroic:
		roll = o.rollHeroic
	default:
		return nil, errors.InvalidArgumentf("unsupported rolling method: %s", method)
	}

	scores := make(features.AbilityScores, len(features.Abilities))
	rolls := make([]*AbilityRoll, 0, len(features.Abilities))
	for _, ability := range features.Abilities {
		r, err := roll()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to roll %s", ability)
		}
		r.Ability = ability
		scores[ability] = r.Total
		rolls = append(rolls, r)
	}

	output := &RollAbilityScoresOutput{
		Method: method,
		Scores: scores,
		Rolls:  rolls,
	}

	if o.sessions != nil {
		created, err := o.sessions.Create(ctx, rollsession.CreateInput{
			Method: method,
			Scores: scores,
			Rolls:  toSessionRolls(rolls),
			TTL:    o.sessionTTL,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to store roll")
		}
		output.RollID = created.Session.ID
		output.ExpiresAt = created.Session.ExpiresAt
	}

	slog.InfoContext(ctx, "Ability scores rolled successfully",
		"method", method,
		"rolls_count", len(rolls),
		"roll_id", output.RollID,
	)

	return output, nil
}

// GetRoll loads a roll stored by RollAbilityScores
func (o *orchestrator) GetRoll(ctx context.Context, input *GetRollInput) (*GetRollOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.RollID == "" {
		return nil, errors.InvalidArgument("roll ID is required")
	}
	if o.sessions == nil {
		return nil, errors.RollSessionsDisabled()
	}

	got, err := o.sessions.Get(ctx, rollsession.GetInput{ID: input.RollID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get roll %s", input.RollID)
	}

	return &GetRollOutput{
		RollID:    got.Session.ID,
		Method:    got.Session.Method,
		Scores:    got.Session.Scores,
		ExpiresAt: got.Session.ExpiresAt,
	}, nil
}

func toSessionRolls(rolls []*AbilityRoll) []rollsession.Roll {
	out := make([]rollsession.Roll, len(rolls))
	for i, r := range rolls {
		out[i] = rollsession.Roll{
			Ability: r.Ability,
			Dice:    r.Dice,
			Dropped: r.Dropped,
			Total:   r.Total,
		}
	}
	return out
}

// rollDropLowest rolls count d6 and keeps the highest three
func (o *orchestrator) rollDropLowest(count int) (*AbilityRoll, error) {
	values, err := o.roller.RollN(count, abilityDieSize)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "dice roller failed")
	}
	if len(values) != count {
		return nil, errors.Internalf("dice roller returned %d dice, expected %d", len(values), count)
	}
	return keepHighest(values, 3), nil
}

// rollHeroic rolls 4d6 rerolling 1s, then drops the lowest
func (o *orchestrator) rollHeroic() (*AbilityRoll, error) {
	values := make([]int, 4)
	for i := range values {
		for attempt := 0; ; attempt++ {
			v, err := o.roller.Roll(abilityDieSize)
			if err != nil {
				return nil, errors.WrapWithCode(err, errors.CodeInternal, "dice roller failed")
			}
			if v != 1 || attempt >= rerollLimit {
				values[i] = v
				break
			}
		}
	}
	return keepHighest(values, 3), nil
}

func keepHighest(values []int, keep int) *AbilityRoll {
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	if keep > len(sorted) {
		keep = len(sorted)
	}

	r := &AbilityRoll{
		Dice:    sorted[:keep],
		Dropped: sorted[keep:],
	}
	for _, d := range r.Dice {
		r.Total += d
	}
	return r
}
