package features

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/rpg-features/internal/engine/locator"
	"github.com/KirkDiggler/rpg-features/internal/entities/features"
	"github.com/KirkDiggler/rpg-features/internal/errors"
	"github.com/KirkDiggler/rpg-features/internal/repositories/catalog"
)

// LoadRegistry reads every catalog kind from repo and builds an immutable registry.
// Kinds are fetched concurrently; catalog order within a kind is the repository's.
func LoadRegistry(ctx context.Context, repo catalog.Repository) (*locator.Registry, error) {
	if repo == nil {
		return nil, errors.InvalidArgument("catalog repository is required")
	}

	perKind := make([][]*features.Catalog, len(features.CatalogKinds))
	g, gctx := errgroup.WithContext(ctx)

	for i, kind := range features.CatalogKinds {
		g.Go(func() error {
			output, err := repo.List(gctx, catalog.ListInput{Kind: kind})
			if err != nil {
				return errors.Wrapf(err, "failed to list %s catalogs", kind)
			}
			perKind[i] = output.Catalogs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []*features.Catalog
	for i, kind := range features.CatalogKinds {
		count := 0
		for _, c := range perKind[i] {
			count += countFeatures(c)
		}
		slog.InfoContext(ctx, "loaded catalogs",
			"kind", kind,
			"catalogs", len(perKind[i]),
			"features", count)
		all = append(all, perKind[i]...)
	}

	return locator.NewRegistry(all...), nil
}

func countFeatures(c *features.Catalog) int {
	if c == nil {
		return 0
	}
	n := 0
	for _, f := range c.Features {
		f.Walk(func(*features.FeatureRecord) bool {
			n++
			return true
		})
	}
	return n
}
