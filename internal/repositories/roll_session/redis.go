package rollsession

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-features/internal/errors"
	"github.com/KirkDiggler/rpg-features/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-features/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/rpg-features/internal/redis"
)

const (
	// Key pattern: roll_session:{id}
	sessionKeyPrefix = "roll_session:"
	idPrefix         = "roll"

	// DefaultTTL applies when CreateInput.TTL is zero
	DefaultTTL = 15 * time.Minute

	// Error messages
	errIDEmpty = "roll session ID cannot be empty"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	// Clock defaults to the system clock
	Clock clock.Clock
	// IDGenerator defaults to random prefixed UUIDs
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
	idGen  idgen.Generator
}

// NewRedisRepository creates a new Redis repository for roll sessions
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	r := &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
		idGen:  cfg.IDGenerator,
	}
	if r.clock == nil {
		r.clock = clock.New()
	}
	if r.idGen == nil {
		r.idGen = idgen.NewRandom(idPrefix)
	}
	return r, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Create stores a new roll session with the specified TTL
func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if len(input.Scores) == 0 {
		return nil, errors.InvalidArgument("scores cannot be empty")
	}
	if input.TTL < 0 {
		return nil, errors.InvalidArgument("ttl must not be negative")
	}

	now := r.clock.Now()
	ttl := input.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	session := &RollSession{
		ID:        r.idGen.Generate(),
		Method:    input.Method,
		Scores:    input.Scores,
		Rolls:     input.Rolls,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal roll session")
	}

	// SetNX so a colliding ID never overwrites another session
	stored, err := r.client.SetNX(ctx, buildKey(session.ID), sessionJSON, ttl).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store roll session in Redis")
	}
	if !stored {
		return nil, errors.RollExists(session.ID)
	}

	return &CreateOutput{
		Session: session,
	}, nil
}

// Get retrieves a roll session by ID
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	key := buildKey(input.ID)

	sessionJSON, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.RollNotFound(input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get roll session from Redis")
	}

	var session RollSession
	if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal roll session")
	}

	// redis expiry and the clock can disagree; the clock wins
	if r.clock.Now().After(session.ExpiresAt) {
		_ = r.client.Del(ctx, key)
		return nil, errors.RollExpired(input.ID)
	}

	return &GetOutput{
		Session: &session,
	}, nil
}

// Delete removes a roll session
func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	removed, err := r.client.Del(ctx, buildKey(input.ID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete roll session from Redis")
	}

	return &DeleteOutput{
		Deleted: removed > 0,
	}, nil
}

func buildKey(id string) string {
	return sessionKeyPrefix + id
}
