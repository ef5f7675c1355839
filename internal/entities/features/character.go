package features

// UnsetScore is the score value treated the same as a missing score
const UnsetScore = 0

// DefaultLevel is the level used when a context does not name one
const DefaultLevel = 1

// MaxLevel is the highest character level
const MaxLevel = 20

// AbilityScores maps abilities to raw scores. Missing entries are unset.
type AbilityScores map[Ability]int

// CharacterContext is the read-only snapshot a description is resolved against.
// The engine never mutates it.
type CharacterContext struct {
	scores           AbilityScores
	proficiencyBonus int
	level            int
}

// CharacterInput configures a CharacterContext
type CharacterInput struct {
	Scores AbilityScores
	Level  int
	// ProficiencyBonus is derived from Level when zero
	ProficiencyBonus int
}

// NewCharacterContext copies the input into an immutable context
func NewCharacterContext(input CharacterInput) *CharacterContext {
	scores := make(AbilityScores, len(input.Scores))
	for a, v := range input.Scores {
		scores[a] = v
	}

	level := input.Level
	if level < 1 {
		level = DefaultLevel
	}

	prof := input.ProficiencyBonus
	if prof == 0 {
		prof = ProficiencyBonusForLevel(level)
	}

	return &CharacterContext{
		scores:           scores,
		proficiencyBonus: prof,
		level:            level,
	}
}

// ProficiencyBonusForLevel returns 2 + (level-1)/4
func ProficiencyBonusForLevel(level int) int {
	if level < 1 {
		return 2
	}
	return 2 + ((level - 1) / 4)
}

// Score returns the raw score, false when unset or when c is nil
func (c *CharacterContext) Score(a Ability) (int, bool) {
	if c == nil {
		return 0, false
	}
	v, ok := c.scores[a]
	if !ok || v == UnsetScore {
		return 0, false
	}
	return v, true
}

// Modifier returns the ability modifier, false when the score is unset
func (c *CharacterContext) Modifier(a Ability) (int, bool) {
	score, ok := c.Score(a)
	if !ok {
		return 0, false
	}
	return Modifier(score), true
}

// ProficiencyBonus is the PROF constant
func (c *CharacterContext) ProficiencyBonus() int {
	if c == nil {
		return ProficiencyBonusForLevel(DefaultLevel)
	}
	return c.proficiencyBonus
}

// Level is the LEVEL constant
func (c *CharacterContext) Level() int {
	if c == nil {
		return DefaultLevel
	}
	return c.level
}

// Scores returns a copy of the set scores
func (c *CharacterContext) Scores() AbilityScores {
	out := make(AbilityScores)
	if c == nil {
		return out
	}
	for a, v := range c.scores {
		if v != UnsetScore {
			out[a] = v
		}
	}
	return out
}
