// Package resolver turns computed value descriptors into numbers for a character
package resolver

import (
	"github.com/KirkDiggler/rpg-features/internal/engine/formula"
	"github.com/KirkDiggler/rpg-features/internal/entities/features"
)

// Evaluator evaluates derived formulas
type Evaluator interface {
	Evaluate(formula string, c *features.CharacterContext) (float64, bool)
}

// Resolver resolves computed values
type Resolver struct {
	evaluator Evaluator
}

// New creates a resolver. A nil evaluator uses a fresh formula.Evaluator.
func New(evaluator Evaluator) *Resolver {
	if evaluator == nil {
		evaluator = formula.New()
	}
	return &Resolver{evaluator: evaluator}
}

// Resolve returns the value, or false when it cannot be computed for c.
// A nil context always yields false so descriptions can be previewed statically.
func (r *Resolver) Resolve(value features.ComputedValue, c *features.CharacterContext) (float64, bool) {
	if c == nil {
		return 0, false
	}

	switch v := value.(type) {
	case features.AbilityScoreValue:
		score, ok := c.Score(v.Ability)
		return float64(score), ok
	case features.AbilityModValue:
		mod, ok := c.Modifier(v.Ability)
		return float64(mod), ok
	case features.DerivedValue:
		return r.evaluator.Evaluate(v.Formula, c)
	default:
		return 0, false
	}
}

// ResolveAll resolves every value and returns the first. It reports false when
// the list is empty or any entry is unavailable.
func (r *Resolver) ResolveAll(values []features.ComputedValue, c *features.CharacterContext) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	var first float64
	for i, value := range values {
		v, ok := r.Resolve(value, c)
		if !ok {
			return 0, false
		}
		if i == 0 {
			first = v
		}
	}
	return first, true
}
