package testutils

import (
	"github.com/KirkDiggler/rpg-features/internal/engine/locator"
	"github.com/KirkDiggler/rpg-features/internal/entities/features"
)

// Fixture catalog and feature names
const (
	ClassBard         = "Bard"
	ClassFighter      = "Fighter"
	SpeciesDwarf      = "Dwarf"
	SpeciesElf        = "Elf"
	BackgroundAcolyte = "Acolyte"

	FeatureBardicInspiration = "Bardic Inspiration"
	FeatureFightingStyle     = "Fighting Style"
	FeatureDefense           = "Defense"
	FeatureSecondWind        = "Second Wind"
	FeatureDwarvenToughness  = "Dwarven Toughness"
	FeatureDarkvision        = "Darkvision"
	FeatureFeyAncestry       = "Fey Ancestry"
	FeatureShelter           = "Shelter of the Faithful"

	// BardicInspirationFallback is the static text of Bardic Inspiration
	BardicInspirationFallback = "You can use this feature a number of times equal to your Charisma modifier (minimum of once)."
)

// CreateTestCharacter builds a context from the given scores at level 1
func CreateTestCharacter(scores features.AbilityScores) *features.CharacterContext {
	return features.NewCharacterContext(features.CharacterInput{Scores: scores})
}

// CreateTestCatalogs returns a small content set covering every description form
func CreateTestCatalogs() []*features.Catalog {
	return []*features.Catalog{
		{
			Kind: features.CatalogKindClass,
			Name: ClassBard,
			Features: []*features.FeatureRecord{
				{
					ID:   "feat-bard-inspiration",
					Name: FeatureBardicInspiration,
					Description: features.Blocks{
						features.TextBlock{Text: "You can inspire others through stirring words or music."},
						features.ComputedReplacementBlock{
							WhenAvailable: []features.ComputedValue{
								features.DerivedValue{Formula: "Math.max(1, CHA_MOD)"},
							},
							FallbackText:        BardicInspirationFallback,
							ReplacementTemplate: "You can use this feature {value} times per long rest.",
							SingularTemplate:    "You can use this feature once per long rest.",
						},
					},
				},
			},
		},
		{
			Kind: features.CatalogKindClass,
			Name: ClassFighter,
			Features: []*features.FeatureRecord{
				{
					ID:          "feat-fighter-style",
					Name:        FeatureFightingStyle,
					Description: features.LegacyText("You adopt a particular style of fighting as your specialty."),
					Options: &features.FeatureOptions{
						Choose: 1,
						Options: []features.FeatureOption{
							{Name: "Archery"},
							{
								Name: "Defense Style",
								Features: []*features.FeatureRecord{
									{
										ID:          "feat-fighter-defense",
										Name:        FeatureDefense,
										Description: features.LegacyText("While you are wearing armor, you gain a <strong>+1 bonus</strong> to AC."),
									},
								},
							},
						},
					},
				},
				{
					ID:   "feat-fighter-second-wind",
					Name: FeatureSecondWind,
					Description: features.Blocks{
						features.ComputedInlineBlock{
							Text: "You regain hit points equal to 1d10 + your fighter level.",
							Hints: []features.Hint{
								{
									AfterText: "fighter level",
									Value:     features.DerivedValue{Formula: "LEVEL"},
									Format:    "({value})",
								},
							},
						},
					},
				},
			},
		},
		{
			Kind: features.CatalogKindSpecies,
			Name: SpeciesDwarf,
			Features: []*features.FeatureRecord{
				{
					ID:          "feat-dwarf-darkvision",
					Name:        FeatureDarkvision,
					Description: features.LegacyText("You can see in dim light within 60 feet of you."),
				},
				{
					ID:   "feat-dwarf-toughness",
					Name: FeatureDwarvenToughness,
					Description: features.Blocks{
						features.ComputedInlineBlock{
							Text: "Your hit point maximum increases by your Constitution modifier plus 1.",
							Hints: []features.Hint{
								{
									AfterText: "Constitution modifier",
									Value:     features.AbilityModValue{Ability: features.AbilityConstitution},
									Format:    "({value})",
								},
							},
						},
					},
				},
			},
		},
		{
			Kind: features.CatalogKindSpecies,
			Name: SpeciesElf,
			Features: []*features.FeatureRecord{
				{
					ID:          "feat-elf-darkvision",
					Name:        FeatureDarkvision,
					Description: features.LegacyText("Accustomed to twilit forests, you see in dim light within 60 feet."),
				},
				{
					ID:          "feat-elf-fey",
					Name:        FeatureFeyAncestry,
					Description: features.LegacyText("You have advantage on saving throws against being charmed."),
				},
			},
		},
		{
			Kind: features.CatalogKindBackground,
			Name: BackgroundAcolyte,
			Features: []*features.FeatureRecord{
				{
					ID:          "feat-acolyte-shelter",
					Name:        FeatureShelter,
					Description: features.LegacyText("You command the respect of those who share your faith."),
				},
			},
		},
	}
}

// CreateTestRegistry wraps CreateTestCatalogs in a registry
func CreateTestRegistry() *locator.Registry {
	return locator.NewRegistry(CreateTestCatalogs()...)
}
