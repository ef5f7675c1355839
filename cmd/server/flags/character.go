// Package flags holds the character flags shared by the local and remote commands
package flags

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-features/internal/engine/locator"
	"github.com/KirkDiggler/rpg-features/internal/entities/features"
)

// Character collects the ability, level and hint flags of a preview character
type Character struct {
	Scores           map[features.Ability]*int
	// Level of 0 falls back to DefaultLevel
	Level            int
	DefaultLevel     int
	ProficiencyBonus int
	Roll             bool
	Method           string
	Class            string
	Species          string
	Background       string
}

// Register adds the character flags to cmd. Zero scores are left unset.
func (c *Character) Register(cmd *cobra.Command) {
	c.Scores = make(map[features.Ability]*int, len(features.Abilities))
	for _, ability := range features.Abilities {
		score := new(int)
		c.Scores[ability] = score
		name := strings.ToLower(ability.String())
		cmd.Flags().IntVar(score, name, features.UnsetScore, ability.String()+" score (0 leaves it unset)")
	}

	cmd.Flags().IntVar(&c.Level, "level", 0, "Character level (defaults to RPG_FEATURES_DEFAULT_LEVEL)")
	cmd.Flags().IntVar(&c.ProficiencyBonus, "proficiency-bonus", 0, "Proficiency bonus (derived from level when 0)")
	cmd.Flags().BoolVar(&c.Roll, "roll", false, "Roll ability scores; explicit score flags take precedence")
	cmd.Flags().StringVar(&c.Method, "method", "", "Rolling method used with --roll")
	cmd.Flags().StringVar(&c.Class, "class", "", "Class catalog to search first")
	cmd.Flags().StringVar(&c.Species, "species", "", "Species catalog to search first")
	cmd.Flags().StringVar(&c.Background, "background", "", "Background catalog to search first")
}

// Hints returns the catalog hints
func (c *Character) Hints() locator.Hints {
	return locator.Hints{
		Class:      c.Class,
		Species:    c.Species,
		Background: c.Background,
	}
}

// Context merges rolled scores with the explicit score flags
func (c *Character) Context(rolled features.AbilityScores) *features.CharacterContext {
	scores := make(features.AbilityScores, len(features.Abilities))
	for ability, v := range rolled {
		scores[ability] = v
	}
	for ability, v := range c.Scores {
		if v != nil && *v != features.UnsetScore {
			scores[ability] = *v
		}
	}

	level := c.Level
	if level == 0 {
		level = c.DefaultLevel
	}

	return features.NewCharacterContext(features.CharacterInput{
		Scores:           scores,
		Level:            level,
		ProficiencyBonus: c.ProficiencyBonus,
	})
}
