package features

import (
	"github.com/KirkDiggler/rpg-features/internal/engine/locator"
	"github.com/KirkDiggler/rpg-features/internal/entities/features"
)

// LookupFeatureInput defines the request for locating a feature record
type LookupFeatureInput struct {
	Name  string
	Hints locator.Hints
}

// LookupFeatureOutput defines the response for locating a feature record
type LookupFeatureOutput struct {
	Feature *features.FeatureRecord
	Found   bool
}

// GetFeatureDescriptionInput defines the request for rendering a description.
// A nil Character renders every computed value as unavailable.
type GetFeatureDescriptionInput struct {
	Name      string
	Character *features.CharacterContext
	Hints     locator.Hints
}

// GetFeatureDescriptionOutput defines the rendered, sanitized description
type GetFeatureDescriptionOutput struct {
	Feature     *features.FeatureRecord
	Description string
	Found       bool
}

// FormatFeatureForPDFInput defines the request for one PDF entry
type FormatFeatureForPDFInput struct {
	Name      string
	Character *features.CharacterContext
	Hints     locator.Hints
}

// FormatFeatureForPDFOutput defines one PDF entry
type FormatFeatureForPDFOutput struct {
	Text  string
	Found bool
}

// FormatFeaturesForPDFInput defines the request for a list of PDF entries
type FormatFeaturesForPDFInput struct {
	Names     []string
	Character *features.CharacterContext
	Hints     locator.Hints
}

// FormatFeaturesForPDFOutput defines the joined PDF entries
type FormatFeaturesForPDFOutput struct {
	Text string
	// Missing lists names that rendered as bullets
	Missing []string
}
