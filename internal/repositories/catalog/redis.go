package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/rpg-features/internal/entities/features"
	"github.com/KirkDiggler/rpg-features/internal/errors"
	"github.com/KirkDiggler/rpg-features/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/rpg-features/internal/redis"
)

const (
	catalogKeyPrefix = "catalog:"
	orderKeySuffix   = ":order"
	namesKeySuffix   = ":names"

	// Error messages
	errCatalogNil       = "catalog cannot be nil"
	errCatalogNameEmpty = "catalog name cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
	idGen  idgen.Generator
}

// RedisConfig contains configuration for the Redis catalog repository.
type RedisConfig struct {
	Client      redisclient.Client
	IDGenerator idgen.Generator
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed catalog repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	gen := cfg.IDGenerator
	if gen == nil {
		gen = idgen.NewNameBased(idPrefix)
	}

	return &redisRepository{
		client: cfg.Client,
		idGen:  gen,
	}, nil
}

func catalogKey(kind features.CatalogKind, normalizedName string) string {
	return fmt.Sprintf("%s%s:%s", catalogKeyPrefix, kind, normalizedName)
}

func orderKey(kind features.CatalogKind) string {
	return catalogKeyPrefix + string(kind) + orderKeySuffix
}

func namesKey(kind features.CatalogKind) string {
	return catalogKeyPrefix + string(kind) + namesKeySuffix
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if !input.Kind.Valid() {
		return nil, errors.UnknownCatalogKind(string(input.Kind))
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.InvalidArgument(errCatalogNameEmpty)
	}

	key := catalogKey(input.Kind, features.NormalizeName(input.Name))
	result, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redisclient.Nil {
			return nil, errors.CatalogNotFound(string(input.Kind), input.Name)
		}
		return nil, errors.Wrapf(err, "failed to get catalog")
	}

	c, err := r.decode(input.Kind, []byte(result))
	if err != nil {
		return nil, err
	}
	return &GetOutput{Catalog: c}, nil
}

func (r *redisRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	if !input.Kind.Valid() {
		return nil, errors.UnknownCatalogKind(string(input.Kind))
	}

	names, err := r.client.LRange(ctx, orderKey(input.Kind), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s catalog order", input.Kind)
	}

	slog.DebugContext(ctx, "found catalogs in order index",
		"kind", input.Kind,
		"count", len(names))

	if len(names) == 0 {
		return &ListOutput{Catalogs: []*features.Catalog{}}, nil
	}

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = catalogKey(input.Kind, name)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get %s catalogs", input.Kind)
	}

	catalogs := make([]*features.Catalog, 0, len(values))
	for i, value := range values {
		data, ok := value.(string)
		if !ok {
			// order entry without a document
			slog.WarnContext(ctx, "catalog listed in index but missing",
				"kind", input.Kind,
				"key", keys[i])
			continue
		}

		c, err := r.decode(input.Kind, []byte(data))
		if err != nil {
			return nil, err
		}
		catalogs = append(catalogs, c)
	}

	return &ListOutput{Catalogs: catalogs}, nil
}

func (r *redisRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	if input.Catalog == nil {
		return nil, errors.InvalidArgument(errCatalogNil)
	}
	if strings.TrimSpace(input.Catalog.Name) == "" {
		return nil, errors.InvalidArgument(errCatalogNameEmpty)
	}

	// Round-trip through the document form so stored catalogs always pass validation
	doc := NewCatalogDocument(input.Catalog)
	validated, err := doc.ToCatalog(input.Catalog.Kind, r.idGen)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(NewCatalogDocument(validated))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal catalog")
	}

	name := features.NormalizeName(validated.Name)
	isMember, err := r.client.SIsMember(ctx, namesKey(validated.Kind), name).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check catalog membership")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, catalogKey(validated.Kind, name), data, 0)
	if !isMember {
		pipe.SAdd(ctx, namesKey(validated.Kind), name)
		pipe.RPush(ctx, orderKey(validated.Kind), name)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to store catalog")
	}

	slog.DebugContext(ctx, "stored catalog",
		"kind", validated.Kind,
		"name", validated.Name,
		"new", !isMember)

	return &PutOutput{Catalog: validated}, nil
}

func (r *redisRepository) decode(kind features.CatalogKind, data []byte) (*features.Catalog, error) {
	var doc CatalogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal %s catalog", kind)
	}
	return doc.ToCatalog(kind, r.idGen)
}
