package locator

import (
	"github.com/KirkDiggler/rpg-features/internal/entities/features"
)

// Hints narrows the search to the character's class, species and background
type Hints struct {
	Class      string
	Species    string
	Background string
}

func (h Hints) forKind(kind features.CatalogKind) string {
	switch kind {
	case features.CatalogKindClass:
		return h.Class
	case features.CatalogKindSpecies:
		return h.Species
	case features.CatalogKindBackground:
		return h.Background
	default:
		return ""
	}
}

// Locator searches a registry
type Locator struct {
	registry *Registry
}

// New creates a locator over the registry
func New(registry *Registry) *Locator {
	return &Locator{registry: registry}
}

// Find returns the first record named name. Hinted catalogs are searched first,
// class then species then background; every other catalog follows in the same
// kind order. Catalogs are trees, so plain depth-first traversal terminates.
func (l *Locator) Find(name string, hints Hints) (*features.FeatureRecord, bool) {
	key := features.NormalizeName(name)
	if key == "" || l == nil || l.registry == nil {
		return nil, false
	}

	searched := make(map[*features.Catalog]bool)

	for _, kind := range features.CatalogKinds {
		hint := hints.forKind(kind)
		if features.NormalizeName(hint) == "" {
			continue
		}
		c, ok := l.registry.Catalog(kind, hint)
		if !ok {
			continue
		}
		searched[c] = true
		if f, ok := findInCatalog(c, key); ok {
			return f, true
		}
	}

	for _, kind := range features.CatalogKinds {
		for _, c := range l.registry.Catalogs(kind) {
			if searched[c] {
				continue
			}
			if f, ok := findInCatalog(c, key); ok {
				return f, true
			}
		}
	}

	return nil, false
}

func findInCatalog(c *features.Catalog, key string) (*features.FeatureRecord, bool) {
	var found *features.FeatureRecord
	for _, f := range c.Features {
		completed := f.Walk(func(candidate *features.FeatureRecord) bool {
			if features.NormalizeName(candidate.Name) == key {
				found = candidate
				return false
			}
			return true
		})
		if !completed {
			return found, true
		}
	}
	return nil, false
}
