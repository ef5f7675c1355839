package v1alpha1

import (
	"encoding/json"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-features/internal/engine/locator"
	"github.com/KirkDiggler/rpg-features/internal/entities/features"
	"github.com/KirkDiggler/rpg-features/internal/errors"
	"github.com/KirkDiggler/rpg-features/internal/repositories/catalog"
)

// Request and response field names
const (
	FieldName             = "name"
	FieldNames            = "names"
	FieldClass            = "class"
	FieldSpecies          = "species"
	FieldBackground       = "background"
	FieldCharacter        = "character"
	FieldAbilities        = "abilities"
	FieldLevel            = "level"
	FieldProficiencyBonus = "proficiencyBonus"
	FieldMethod           = "method"
	FieldRollID           = "rollId"

	FieldFound       = "found"
	FieldFeature     = "feature"
	FieldDescription = "description"
	FieldText        = "text"
	FieldMissing     = "missing"
	FieldScores      = "scores"
	FieldRolls       = "rolls"
	FieldAbility     = "ability"
	FieldDice        = "dice"
	FieldDropped     = "dropped"
	FieldTotal       = "total"
	FieldExpiresAt   = "expiresAt"
)

func optionalString(fields map[string]interface{}, key string, vb *errors.ValidationBuilder) string {
	raw, ok := fields[key]
	if !ok || raw == nil {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		vb.Field(key, "must be a string")
		return ""
	}
	return s
}

func optionalInt(fields map[string]interface{}, key string, vb *errors.ValidationBuilder) int {
	raw, ok := fields[key]
	if !ok || raw == nil {
		return 0
	}
	n, ok := raw.(float64)
	if !ok || n != math.Trunc(n) || math.IsInf(n, 0) {
		vb.Field(key, "must be an integer")
		return 0
	}
	return int(n)
}

func decodeHints(fields map[string]interface{}, vb *errors.ValidationBuilder) locator.Hints {
	return locator.Hints{
		Class:      optionalString(fields, FieldClass, vb),
		Species:    optionalString(fields, FieldSpecies, vb),
		Background: optionalString(fields, FieldBackground, vb),
	}
}

func decodeNames(fields map[string]interface{}, vb *errors.ValidationBuilder) []string {
	raw, ok := fields[FieldNames]
	if !ok || raw == nil {
		return nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		vb.Field(FieldNames, "must be a list of strings")
		return nil
	}
	names := make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			vb.Fieldf(FieldNames, "entry %d must be a string", i)
			continue
		}
		names = append(names, s)
	}
	return names
}

// DecodeCharacter reads the character object. A missing or null character is a
// nil context; null ability values are unset. A character without a level gets
// defaultLevel.
func DecodeCharacter(raw interface{}, defaultLevel int) (*features.CharacterContext, error) {
	if raw == nil {
		return nil, nil
	}
	fields, ok := raw.(map[string]interface{})
	if !ok {
		return nil, errors.InvalidArgument("character must be an object")
	}

	vb := errors.NewValidationBuilder()
	scores := make(features.AbilityScores)

	if rawAbilities, ok := fields[FieldAbilities]; ok && rawAbilities != nil {
		abilities, ok := rawAbilities.(map[string]interface{})
		if !ok {
			vb.Field(FieldAbilities, "must be an object")
		}
		for key, value := range abilities {
			ability, known := features.ParseAbility(key)
			if !known {
				vb.Fieldf(FieldAbilities, "unknown ability %q", key)
				continue
			}
			if value == nil {
				continue
			}
			n, isNumber := value.(float64)
			if !isNumber || n != math.Trunc(n) {
				vb.Fieldf(FieldAbilities, "%s must be an integer or null", key)
				continue
			}
			scores[ability] = int(n)
		}
	}

	level := optionalInt(fields, FieldLevel, vb)
	prof := optionalInt(fields, FieldProficiencyBonus, vb)
	if level < 0 {
		vb.Field(FieldLevel, "must not be negative")
	}

	if err := vb.Build(); err != nil {
		return nil, errors.Wrap(err, "invalid character")
	}
	if level == 0 {
		level = defaultLevel
	}

	return features.NewCharacterContext(features.CharacterInput{
		Scores:           scores,
		Level:            level,
		ProficiencyBonus: prof,
	}), nil
}

// mergeRolledScores fills abilities c leaves unset from a stored roll
func mergeRolledScores(c *features.CharacterContext, rolled features.AbilityScores) *features.CharacterContext {
	scores := make(features.AbilityScores, len(rolled))
	for a, v := range rolled {
		scores[a] = v
	}
	for a, v := range c.Scores() {
		scores[a] = v
	}
	return features.NewCharacterContext(features.CharacterInput{
		Scores:           scores,
		Level:            c.Level(),
		ProficiencyBonus: c.ProficiencyBonus(),
	})
}

// EncodeCharacter writes the character object; unset abilities are null
func EncodeCharacter(c *features.CharacterContext) map[string]interface{} {
	if c == nil {
		return nil
	}
	abilities := make(map[string]interface{}, len(features.Abilities))
	for _, a := range features.Abilities {
		if score, ok := c.Score(a); ok {
			abilities[string(a)] = score
		} else {
			abilities[string(a)] = nil
		}
	}
	return map[string]interface{}{
		FieldAbilities:        abilities,
		FieldLevel:            c.Level(),
		FieldProficiencyBonus: c.ProficiencyBonus(),
	}
}

// EncodeHints adds the non-empty hints to fields
func EncodeHints(fields map[string]interface{}, hints locator.Hints) {
	if hints.Class != "" {
		fields[FieldClass] = hints.Class
	}
	if hints.Species != "" {
		fields[FieldSpecies] = hints.Species
	}
	if hints.Background != "" {
		fields[FieldBackground] = hints.Background
	}
}

// encodeFeature uses the catalog document form so clients see the same shape
// as the YAML files
func encodeFeature(record *features.FeatureRecord) (map[string]interface{}, error) {
	data, err := json.Marshal(catalog.NewFeatureDocument(record))
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode feature")
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(err, "failed to encode feature")
	}
	return out, nil
}

func stringList(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func intList(values []int) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func newResponse(fields map[string]interface{}) (*structpb.Struct, error) {
	resp, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build response")
	}
	return resp, nil
}
