// Package catalog provides the interface for feature catalog persistence
package catalog

//go:generate mockgen -destination=mock/mock_repository.go -package=catalogmock github.com/KirkDiggler/rpg-features/internal/repositories/catalog Repository

import (
	"context"

	"github.com/KirkDiggler/rpg-features/internal/entities/features"
)

// Repository defines the interface for catalog persistence
type Repository interface {
	// Get retrieves one catalog by kind and name (case-insensitive)
	// Returns errors.InvalidArgument for an unknown kind or empty name
	// Returns errors.NotFound if the catalog doesn't exist
	// Returns errors.Internal for storage or decode failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// List retrieves every catalog of a kind in storage order
	// Returns errors.InvalidArgument for an unknown kind or an invalid document
	// Returns errors.Internal for storage failures
	List(ctx context.Context, input ListInput) (*ListOutput, error)

	// Put stores a catalog, replacing any catalog with the same kind and name
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.Unimplemented for read-only stores
	// Returns errors.Internal for storage failures
	Put(ctx context.Context, input PutInput) (*PutOutput, error)
}

// GetInput defines the input for getting a catalog
type GetInput struct {
	Kind features.CatalogKind
	Name string
}

// GetOutput defines the output for getting a catalog
type GetOutput struct {
	Catalog *features.Catalog
}

// ListInput defines the input for listing catalogs of one kind
type ListInput struct {
	Kind features.CatalogKind
}

// ListOutput defines the output for listing catalogs
type ListOutput struct {
	Catalogs []*features.Catalog
}

// PutInput defines the input for storing a catalog
type PutInput struct {
	Catalog *features.Catalog
}

// PutOutput defines the output for storing a catalog
type PutOutput struct {
	Catalog *features.Catalog
}
