package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-features/internal/entities/features"
	"github.com/KirkDiggler/rpg-features/internal/repositories/catalog"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Copy YAML catalogs into redis",
	Long: `Read every catalog under --catalog-dir and store it in redis at --redis-addr.
Existing catalogs with the same name are replaced in place.`,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	source, err := openYAMLRepository(cfg.CatalogDir)
	if err != nil {
		return err
	}

	client, err := newRedisClient(ctx, cfg.RedisAddr)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close() // nolint:errcheck // safe to ignore in cleanup
	}()

	target, err := catalog.NewRedis(&catalog.RedisConfig{Client: client})
	if err != nil {
		return err
	}

	total := 0
	for _, kind := range features.CatalogKinds {
		listed, err := source.List(ctx, catalog.ListInput{Kind: kind})
		if err != nil {
			return err
		}

		for _, c := range listed.Catalogs {
			if _, err := target.Put(ctx, catalog.PutInput{Catalog: c}); err != nil {
				return err
			}
			slog.DebugContext(ctx, "seeded catalog", "kind", kind, "name", c.Name)
		}
		total += len(listed.Catalogs)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d catalogs into %s\n", total, cfg.RedisAddr)
	return nil
}
