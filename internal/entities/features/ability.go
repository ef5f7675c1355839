// Package features holds the data shapes of feature records and the character
// context their descriptions are resolved against.
package features

import "strings"

// Ability identifies one of the six ability scores
type Ability string

// Ability identifiers, as they appear in formulas
const (
	AbilityStrength     Ability = "STR"
	AbilityDexterity    Ability = "DEX"
	AbilityConstitution Ability = "CON"
	AbilityIntelligence Ability = "INT"
	AbilityWisdom       Ability = "WIS"
	AbilityCharisma     Ability = "CHA"
)

// Abilities lists every ability in sheet order
var Abilities = []Ability{
	AbilityStrength,
	AbilityDexterity,
	AbilityConstitution,
	AbilityIntelligence,
	AbilityWisdom,
	AbilityCharisma,
}

var abilityAliases = map[string]Ability{
	"str":          AbilityStrength,
	"strength":     AbilityStrength,
	"dex":          AbilityDexterity,
	"dexterity":    AbilityDexterity,
	"con":          AbilityConstitution,
	"constitution": AbilityConstitution,
	"int":          AbilityIntelligence,
	"intelligence": AbilityIntelligence,
	"wis":          AbilityWisdom,
	"wisdom":       AbilityWisdom,
	"cha":          AbilityCharisma,
	"charisma":     AbilityCharisma,
}

// ParseAbility accepts the short or full ability name in any case
func ParseAbility(s string) (Ability, bool) {
	a, ok := abilityAliases[strings.ToLower(strings.TrimSpace(s))]
	return a, ok
}

// ModifierToken returns the formula identifier for the ability's modifier, e.g. CON_MOD
func (a Ability) ModifierToken() string {
	return string(a) + "_MOD"
}

// String returns the formula identifier
func (a Ability) String() string {
	return string(a)
}

// Modifier calculates floor((score-10)/2)
func Modifier(score int) int {
	d := score - 10
	if d < 0 {
		return -((-d + 1) / 2)
	}
	return d / 2
}
