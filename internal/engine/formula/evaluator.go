// Package formula evaluates the small expression language used by derived
// feature values, e.g. "Math.max(1, CHA_MOD)" or "PROF + WIS_MOD".
package formula

import (
	"log/slog"
	"math"
	"regexp"
	"sync"

	"github.com/KirkDiggler/rpg-features/internal/entities/features"
)

// Constant identifiers
const (
	IdentProficiency = "PROF"
	IdentLevel       = "LEVEL"
)

var abilityTokenRegex = regexp.MustCompile(`\b(STR|DEX|CON|INT|WIS|CHA)(_MOD)?\b`)

var knownIdents = func() map[string]bool {
	known := map[string]bool{
		IdentProficiency: true,
		IdentLevel:       true,
	}
	for _, a := range features.Abilities {
		known[a.String()] = true
		known[a.ModifierToken()] = true
	}
	return known
}()

// program is a compiled formula. err is set for malformed formulas so the
// failure is cached too.
type program struct {
	root node
	deps []features.Ability
	err  error
}

// Evaluator compiles and evaluates formulas. Compiled formulas are cached, so an
// Evaluator is safe and cheap to share between goroutines.
type Evaluator struct {
	cache sync.Map // string -> *program
}

// New creates an evaluator with an empty cache
func New() *Evaluator {
	return &Evaluator{}
}

var defaultEvaluator = New()

// Evaluate evaluates formula with the default evaluator
func Evaluate(formula string, c *features.CharacterContext) (float64, bool) {
	return defaultEvaluator.Evaluate(formula, c)
}

// Evaluate returns the formula's value, or false when it is unavailable.
// A formula referencing an unset ability is unavailable without being evaluated.
// Malformed formulas are logged and reported as unavailable.
func (e *Evaluator) Evaluate(formula string, c *features.CharacterContext) (float64, bool) {
	if c == nil {
		return 0, false
	}

	prog := e.compile(formula)
	for _, a := range prog.deps {
		if _, ok := c.Score(a); !ok {
			return 0, false
		}
	}

	if prog.err != nil {
		slog.Warn("malformed formula",
			"formula", formula,
			"error", prog.err,
		)
		return 0, false
	}

	v, err := prog.root.eval(environment(c))
	if err != nil {
		slog.Warn("formula evaluation failed",
			"formula", formula,
			"error", err,
		)
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		slog.Warn("formula produced a non-finite value",
			"formula", formula,
			"value", v,
		)
		return 0, false
	}

	return v, true
}

// Validate reports the syntax error of formula using the default evaluator.
// The compiled form is cached for later evaluation.
func Validate(formula string) error {
	return defaultEvaluator.Validate(formula)
}

// Validate reports the syntax error of a formula, if any
func (e *Evaluator) Validate(formula string) error {
	return e.compile(formula).err
}

func (e *Evaluator) compile(formula string) *program {
	if cached, ok := e.cache.Load(formula); ok {
		return cached.(*program)
	}

	prog := &program{deps: referencedAbilities(formula)}
	prog.root, prog.err = parse(formula, knownIdents)

	actual, _ := e.cache.LoadOrStore(formula, prog)
	return actual.(*program)
}

func referencedAbilities(formula string) []features.Ability {
	seen := make(map[features.Ability]bool)
	var deps []features.Ability
	for _, m := range abilityTokenRegex.FindAllStringSubmatch(formula, -1) {
		a := features.Ability(m[1])
		if !seen[a] {
			seen[a] = true
			deps = append(deps, a)
		}
	}
	return deps
}

func environment(c *features.CharacterContext) map[string]float64 {
	env := map[string]float64{
		IdentProficiency: float64(c.ProficiencyBonus()),
		IdentLevel:       float64(c.Level()),
	}
	for _, a := range features.Abilities {
		score, ok := c.Score(a)
		if !ok {
			continue
		}
		env[a.String()] = float64(score)
		env[a.ModifierToken()] = float64(features.Modifier(score))
	}
	return env
}
