package locator_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-features/internal/engine/locator"
	"github.com/KirkDiggler/rpg-features/internal/entities/features"
	"github.com/KirkDiggler/rpg-features/internal/testutils"
)

type LocatorTestSuite struct {
	suite.Suite
	locator *locator.Locator
}

func TestLocatorSuite(t *testing.T) {
	suite.Run(t, new(LocatorTestSuite))
}

func (s *LocatorTestSuite) SetupTest() {
	s.locator = locator.New(testutils.CreateTestRegistry())
}

func (s *LocatorTestSuite) TestFind() {
	testCases := []struct {
		name       string
		feature    string
		hints      locator.Hints
		expectedID string
	}{
		{
			name:       "exact name without hints",
			feature:    testutils.FeatureSecondWind,
			expectedID: "feat-fighter-second-wind",
		},
		{
			name:       "case insensitive and trimmed",
			feature:    "  bardic INSPIRATION ",
			expectedID: "feat-bard-inspiration",
		},
		{
			name:       "nested option feature",
			feature:    testutils.FeatureDefense,
			hints:      locator.Hints{Class: testutils.ClassFighter},
			expectedID: "feat-fighter-defense",
		},
		{
			name:       "nested option feature without hints",
			feature:    testutils.FeatureDefense,
			expectedID: "feat-fighter-defense",
		},
		{
			name:       "exhaustive search takes first registered species",
			feature:    testutils.FeatureDarkvision,
			expectedID: "feat-dwarf-darkvision",
		},
		{
			name:       "species hint selects the colliding record",
			feature:    testutils.FeatureDarkvision,
			hints:      locator.Hints{Species: "elf"},
			expectedID: "feat-elf-darkvision",
		},
		{
			name:       "class hint misses, species hint matches",
			feature:    testutils.FeatureDarkvision,
			hints:      locator.Hints{Class: testutils.ClassBard, Species: testutils.SpeciesElf},
			expectedID: "feat-elf-darkvision",
		},
		{
			name:       "background hint",
			feature:    testutils.FeatureShelter,
			hints:      locator.Hints{Class: testutils.ClassBard, Species: testutils.SpeciesDwarf, Background: testutils.BackgroundAcolyte},
			expectedID: "feat-acolyte-shelter",
		},
		{
			name:       "hinted catalogs miss, fall back to all catalogs",
			feature:    testutils.FeatureFeyAncestry,
			hints:      locator.Hints{Class: testutils.ClassFighter, Species: testutils.SpeciesDwarf},
			expectedID: "feat-elf-fey",
		},
		{
			name:       "unknown hint is ignored",
			feature:    testutils.FeatureBardicInspiration,
			hints:      locator.Hints{Class: "Artificer"},
			expectedID: "feat-bard-inspiration",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			f, ok := s.locator.Find(tc.feature, tc.hints)
			s.Require().True(ok)
			s.Assert().Equal(tc.expectedID, f.ID)
		})
	}
}

func (s *LocatorTestSuite) TestNotFound() {
	testCases := []struct {
		name    string
		feature string
	}{
		{name: "unknown feature", feature: "Wild Shape"},
		{name: "empty name", feature: ""},
		{name: "whitespace name", feature: "   "},
		{name: "option name is not a feature", feature: "Archery"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			f, ok := s.locator.Find(tc.feature, locator.Hints{})
			s.Assert().False(ok)
			s.Assert().Nil(f)
		})
	}
}

func (s *LocatorTestSuite) TestClassBeforeSpeciesBeforeBackground() {
	shared := "Shared Feature"
	registry := locator.NewRegistry(
		&features.Catalog{Kind: features.CatalogKindBackground, Name: "Sage", Features: []*features.FeatureRecord{{ID: "background", Name: shared}}},
		&features.Catalog{Kind: features.CatalogKindSpecies, Name: "Gnome", Features: []*features.FeatureRecord{{ID: "species", Name: shared}}},
		&features.Catalog{Kind: features.CatalogKindClass, Name: "Wizard", Features: []*features.FeatureRecord{{ID: "class", Name: shared}}},
	)
	l := locator.New(registry)

	f, ok := l.Find(shared, locator.Hints{})
	s.Require().True(ok)
	s.Assert().Equal("class", f.ID)

	f, ok = l.Find(shared, locator.Hints{Species: "Gnome", Background: "Sage"})
	s.Require().True(ok)
	s.Assert().Equal("species", f.ID)

	f, ok = l.Find(shared, locator.Hints{Background: "Sage"})
	s.Require().True(ok)
	s.Assert().Equal("background", f.ID)
}

func (s *LocatorTestSuite) TestDeepNesting() {
	deepest := &features.FeatureRecord{ID: "deep", Name: "Deep Feature"}
	middle := &features.FeatureRecord{
		ID:   "middle",
		Name: "Middle",
		Options: &features.FeatureOptions{Choose: 1, Options: []features.FeatureOption{
			{Name: "Go deeper", Features: []*features.FeatureRecord{deepest}},
		}},
	}
	top := &features.FeatureRecord{
		ID:   "top",
		Name: "Top",
		Options: &features.FeatureOptions{Choose: 1, Options: []features.FeatureOption{
			{Name: "Simple"},
			{Name: "Nested", Features: []*features.FeatureRecord{middle}},
		}},
	}
	l := locator.New(locator.NewRegistry(&features.Catalog{
		Kind:     features.CatalogKindClass,
		Name:     "Warlock",
		Features: []*features.FeatureRecord{top},
	}))

	f, ok := l.Find("deep feature", locator.Hints{Class: "warlock"})
	s.Require().True(ok)
	s.Assert().Same(deepest, f)
}

func (s *LocatorTestSuite) TestNilRegistry() {
	f, ok := locator.New(nil).Find(testutils.FeatureDefense, locator.Hints{})
	s.Assert().False(ok)
	s.Assert().Nil(f)
}
