package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-features/cmd/server/flags"
	"github.com/KirkDiggler/rpg-features/internal/config"
	"github.com/KirkDiggler/rpg-features/internal/entities/features"
	"github.com/KirkDiggler/rpg-features/internal/errors"
	diceorch "github.com/KirkDiggler/rpg-features/internal/orchestrators/dice"
	featureorch "github.com/KirkDiggler/rpg-features/internal/orchestrators/features"
	"github.com/KirkDiggler/rpg-features/internal/redis"
	"github.com/KirkDiggler/rpg-features/internal/repositories/catalog"
	rollsession "github.com/KirkDiggler/rpg-features/internal/repositories/roll_session"
)

var (
	cfg *config.Config

	// Flag overrides for cfg
	catalogSource string
	catalogDir    string
	redisAddr     string
	logLevel      string
)

// setup loads configuration, applies flag overrides and installs the logger
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}

	flagSet := cmd.Flags()
	if flagSet.Changed("catalog-source") {
		loaded.CatalogSource = catalogSource
	}
	if flagSet.Changed("catalog-dir") {
		loaded.CatalogDir = catalogDir
	}
	if flagSet.Changed("redis-addr") {
		loaded.RedisAddr = redisAddr
	}
	if flagSet.Changed("log-level") {
		loaded.LogLevel = logLevel
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: loaded.SlogLevel(),
	})))

	cfg = loaded
	return nil
}

func newRedisClient(ctx context.Context, addr string) (redis.Client, error) {
	client, err := redis.NewClient(addr, &redis.Options{
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, err
	}
	if err := redis.Ping(ctx, client); err != nil {
		_ = client.Close() // nolint:errcheck // already failing
		return nil, err
	}
	return client, nil
}

func openYAMLRepository(dir string) (catalog.Repository, error) {
	return catalog.NewYAML(&catalog.YAMLConfig{Dir: dir})
}

// openRepository opens the configured catalog source. The returned cleanup is never nil.
func openRepository(ctx context.Context) (catalog.Repository, func(), error) {
	noop := func() {}

	switch cfg.CatalogSource {
	case config.CatalogSourceRedis:
		client, err := newRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, noop, err
		}
		cleanup := func() {
			_ = client.Close() // nolint:errcheck // safe to ignore in cleanup
		}
		repo, err := catalog.NewRedis(&catalog.RedisConfig{Client: client})
		if err != nil {
			cleanup()
			return nil, noop, err
		}
		return repo, cleanup, nil
	case config.CatalogSourceYAML:
		repo, err := openYAMLRepository(cfg.CatalogDir)
		if err != nil {
			return nil, noop, err
		}
		return repo, noop, nil
	default:
		return nil, noop, errors.InvalidArgumentf("unknown catalog source %q", cfg.CatalogSource)
	}
}

// services bundles the orchestrators used by the local commands and the server
type services struct {
	features featureorch.Service
	dice     diceorch.Service
	cleanup  func()
}

// newServices wires the orchestrators. Roll sessions are only used by the server.
func newServices(ctx context.Context, withSessions bool) (*services, error) {
	repo, cleanup, err := openRepository(ctx)
	if err != nil {
		return nil, err
	}

	registry, err := featureorch.LoadRegistry(ctx, repo)
	if err != nil {
		cleanup()
		return nil, err
	}

	bus := events.NewBus()
	bus.SubscribeFunc(featureorch.EventFeatureDescribed, 0, func(ctx context.Context, e events.Event) error {
		slog.DebugContext(ctx, "feature described", "feature_id", e.Source().GetID())
		return nil
	})

	featureService, err := featureorch.NewOrchestrator(&featureorch.Config{
		Registry: registry,
		EventBus: bus,
	})
	if err != nil {
		cleanup()
		return nil, err
	}

	diceCfg := &diceorch.Config{
		Roller:     dice.DefaultRoller,
		SessionTTL: cfg.RollTTL,
	}
	if withSessions && cfg.RollSessions {
		client, err := newRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			cleanup()
			return nil, err
		}
		repoCleanup := cleanup
		cleanup = func() {
			_ = client.Close() // nolint:errcheck // safe to ignore in cleanup
			repoCleanup()
		}

		sessions, err := rollsession.NewRedisRepository(&rollsession.Config{Client: client})
		if err != nil {
			cleanup()
			return nil, err
		}
		diceCfg.Sessions = sessions
		slog.InfoContext(ctx, "roll sessions enabled", "ttl", cfg.RollTTL.String())
	}

	diceService, err := diceorch.NewOrchestrator(diceCfg)
	if err != nil {
		cleanup()
		return nil, err
	}

	return &services{
		features: featureService,
		dice:     diceService,
		cleanup:  cleanup,
	}, nil
}

// characterContext builds the preview character, rolling first when asked
func (s *services) characterContext(ctx context.Context, c *flags.Character) (*features.CharacterContext, error) {
	var rolled features.AbilityScores
	if c.Roll {
		out, err := s.dice.RollAbilityScores(ctx, &diceorch.RollAbilityScoresInput{Method: c.Method})
		if err != nil {
			return nil, err
		}
		rolled = out.Scores
		slog.InfoContext(ctx, "rolled ability scores", "method", out.Method, "scores", rolled)
	}
	return c.Context(rolled), nil
}
