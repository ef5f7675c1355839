package features

import "strings"

// CatalogKind names the content domain a catalog belongs to
type CatalogKind string

// Catalog kinds in locator priority order
const (
	CatalogKindClass      CatalogKind = "classes"
	CatalogKindSpecies    CatalogKind = "species"
	CatalogKindBackground CatalogKind = "backgrounds"
)

// CatalogKinds lists every kind in search priority order
var CatalogKinds = []CatalogKind{
	CatalogKindClass,
	CatalogKindSpecies,
	CatalogKindBackground,
}

// Valid reports whether k is a known kind
func (k CatalogKind) Valid() bool {
	switch k {
	case CatalogKindClass, CatalogKindSpecies, CatalogKindBackground:
		return true
	default:
		return false
	}
}

// Catalog is the feature collection of one class, species or background.
// Feature names are unique within a catalog.
type Catalog struct {
	Kind     CatalogKind
	Name     string
	Features []*FeatureRecord
}

// FeatureRecord is a named rule element
type FeatureRecord struct {
	// ID is stable but never used for lookup
	ID          string
	Name        string
	Description Description
	Options     *FeatureOptions
}

// FeatureOptions is a pick-N-from-list prompt
type FeatureOptions struct {
	Choose  int
	Options []FeatureOption
}

// FeatureOption is one choice of a prompt. Complex options carry nested features.
type FeatureOption struct {
	Name     string
	Features []*FeatureRecord
}

// IsComplex reports whether the option nests further feature records
func (o FeatureOption) IsComplex() bool {
	return len(o.Features) > 0
}

// NormalizeName is the comparison form of feature and catalog names
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Walk visits f and every nested record depth-first, pre-order, until visit returns false.
// It reports whether the walk ran to completion.
func (f *FeatureRecord) Walk(visit func(*FeatureRecord) bool) bool {
	if f == nil {
		return true
	}
	if !visit(f) {
		return false
	}
	if f.Options == nil {
		return true
	}
	for _, opt := range f.Options.Options {
		for _, nested := range opt.Features {
			if !nested.Walk(visit) {
				return false
			}
		}
	}
	return true
}
