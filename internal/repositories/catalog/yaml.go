package catalog

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-features/internal/entities/features"
	"github.com/KirkDiggler/rpg-features/internal/errors"
	"github.com/KirkDiggler/rpg-features/internal/pkg/idgen"
)

const defaultParseConcurrency = 8

type yamlRepository struct {
	dir         string
	idGen       idgen.Generator
	concurrency int
}

// YAMLConfig contains configuration for the YAML directory repository.
// Catalogs live at <Dir>/<kind>/<file>.yaml, one catalog per file.
type YAMLConfig struct {
	Dir         string
	IDGenerator idgen.Generator
	// Concurrency bounds parallel file parsing, default 8
	Concurrency int
}

// Validate validates the YAMLConfig.
func (cfg *YAMLConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("dir", cfg.Dir, vb)
	if cfg.Concurrency < 0 {
		vb.Field("concurrency", "must not be negative")
	}
	return vb.Build()
}

// NewYAML creates a read-only repository over a catalog directory
func NewYAML(cfg *YAMLConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "catalog directory is not readable")
	}
	if !info.IsDir() {
		return nil, errors.InvalidArgumentf("catalog path %s is not a directory", cfg.Dir)
	}

	gen := cfg.IDGenerator
	if gen == nil {
		gen = idgen.NewNameBased(idPrefix)
	}

	concurrency := cfg.Concurrency
	if concurrency == 0 {
		concurrency = defaultParseConcurrency
	}

	return &yamlRepository{
		dir:         cfg.Dir,
		idGen:       gen,
		concurrency: concurrency,
	}, nil
}

func (r *yamlRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.InvalidArgument("catalog name cannot be empty")
	}

	listOutput, err := r.List(ctx, ListInput{Kind: input.Kind})
	if err != nil {
		return nil, err
	}

	want := features.NormalizeName(input.Name)
	for _, c := range listOutput.Catalogs {
		if features.NormalizeName(c.Name) == want {
			return &GetOutput{Catalog: c}, nil
		}
	}

	return nil, errors.CatalogNotFound(string(input.Kind), input.Name)
}

func (r *yamlRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	if !input.Kind.Valid() {
		return nil, errors.UnknownCatalogKind(string(input.Kind))
	}

	paths, err := r.catalogFiles(input.Kind)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "parsing catalog files",
		"kind", input.Kind,
		"count", len(paths))

	catalogs := make([]*features.Catalog, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			c, err := r.parseFile(input.Kind, path)
			if err != nil {
				return err
			}
			catalogs[i] = c
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "failed to load catalogs",
			"kind", input.Kind,
			"dir", r.dir,
			"error", err.Error())
		return nil, errors.Wrapf(err, "failed to load %s catalogs", input.Kind)
	}

	seen := make(map[string]string, len(catalogs))
	for i, c := range catalogs {
		key := features.NormalizeName(c.Name)
		if first, dup := seen[key]; dup {
			return nil, errors.DuplicateCatalog(string(input.Kind), c.Name, first, paths[i])
		}
		seen[key] = paths[i]
	}

	return &ListOutput{Catalogs: catalogs}, nil
}

func (r *yamlRepository) Put(_ context.Context, _ PutInput) (*PutOutput, error) {
	return nil, errors.ReadOnlyCatalogs("yaml")
}

// catalogFiles returns the kind's yaml files in name order. A missing kind
// directory holds no catalogs.
func (r *yamlRepository) catalogFiles(kind features.CatalogKind) ([]string, error) {
	kindDir := filepath.Join(r.dir, string(kind))

	entries, err := os.ReadDir(kindDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to read catalog directory %s", kindDir)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(kindDir, entry.Name()))
		}
	}
	return paths, nil
}

func (r *yamlRepository) parseFile(kind features.CatalogKind, path string) (*features.Catalog, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the configured catalog dir
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	var doc CatalogDocument
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, errors.CatalogInvalid(err, string(kind), path)
	}

	c, err := doc.ToCatalog(kind, r.idGen)
	if err != nil {
		return nil, errors.CatalogInvalid(err, string(kind), path)
	}
	return c, nil
}
