// Package locator finds feature records by name in the content catalogs
package locator

import (
	"github.com/KirkDiggler/rpg-features/internal/entities/features"
)

// Registry is an immutable, ordered set of catalogs. Catalogs of each kind keep
// the order they were registered in, which is the exhaustive search order.
type Registry struct {
	byKind map[features.CatalogKind][]*features.Catalog
	index  map[features.CatalogKind]map[string]*features.Catalog
}

// NewRegistry builds a registry. Catalogs with an unknown kind are ignored; a later
// catalog with the same kind and name replaces the earlier one in place.
func NewRegistry(catalogs ...*features.Catalog) *Registry {
	r := &Registry{
		byKind: make(map[features.CatalogKind][]*features.Catalog),
		index:  make(map[features.CatalogKind]map[string]*features.Catalog),
	}

	for _, c := range catalogs {
		if c == nil || !c.Kind.Valid() {
			continue
		}
		if r.index[c.Kind] == nil {
			r.index[c.Kind] = make(map[string]*features.Catalog)
		}

		key := features.NormalizeName(c.Name)
		if _, exists := r.index[c.Kind][key]; exists {
			list := r.byKind[c.Kind]
			for i, existing := range list {
				if features.NormalizeName(existing.Name) == key {
					list[i] = c
				}
			}
		} else {
			r.byKind[c.Kind] = append(r.byKind[c.Kind], c)
		}
		r.index[c.Kind][key] = c
	}

	return r
}

// Catalog returns the named catalog of a kind, matched case-insensitively
func (r *Registry) Catalog(kind features.CatalogKind, name string) (*features.Catalog, bool) {
	if r == nil {
		return nil, false
	}
	c, ok := r.index[kind][features.NormalizeName(name)]
	return c, ok
}

// Catalogs returns the catalogs of a kind in registration order
func (r *Registry) Catalogs(kind features.CatalogKind) []*features.Catalog {
	if r == nil {
		return nil
	}
	out := make([]*features.Catalog, len(r.byKind[kind]))
	copy(out, r.byKind[kind])
	return out
}

// Names returns the catalog names of a kind in registration order
func (r *Registry) Names(kind features.CatalogKind) []string {
	catalogs := r.Catalogs(kind)
	names := make([]string, len(catalogs))
	for i, c := range catalogs {
		names[i] = c.Name
	}
	return names
}
