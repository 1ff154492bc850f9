package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/voiestad/f1-backend/internal/codes"
	"github.com/voiestad/f1-backend/internal/config"
	"github.com/voiestad/f1-backend/internal/cutoff"
	"github.com/voiestad/f1-backend/internal/guessing"
	"github.com/voiestad/f1-backend/internal/leaderboard"
	"github.com/voiestad/f1-backend/internal/persistence/postgres"
	"github.com/voiestad/f1-backend/internal/scoring"
)

// backend is the wired application: one pool, all services.
type backend struct {
	cfg      *config.Config
	db       *sqlx.DB
	repos    *postgres.Repos
	gate     *cutoff.Gate
	engine   *scoring.Engine
	board    *leaderboard.Aggregator
	guessing *guessing.Service
	codes    *codes.Service
}

// openBackend loads config, connects postgres, applies the schema and
// wires every service.
func openBackend(ctx context.Context, cmd *cobra.Command) (*backend, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	repos := postgres.NewRepos(db, cfg.Database.QueryTimeout)
	clock := cutoff.SystemClock{}
	gate := cutoff.NewGate(repos.Cutoffs, clock, loc, log.Logger)

	metrics := scoring.NewMetrics(prometheus.DefaultRegisterer)
	engine := scoring.NewEngine(
		repos.ScoringTable, repos.Guesses, repos.Seasons, repos.Results, repos.Snapshots,
		log.Logger, metrics)

	var cache leaderboard.Cache
	if cfg.Cache.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr: cfg.Cache.RedisAddr,
			DB:   cfg.Cache.RedisDB,
		})
		cache = leaderboard.NewRedisCache(client)
		log.Info().Str("addr", cfg.Cache.RedisAddr).Msg("redis cache enabled")
	} else {
		cache = leaderboard.NewMemoryCache()
		log.Info().Msg("in-memory cache enabled")
	}
	board := leaderboard.NewAggregator(repos.Seasons, repos.Snapshots, cache, cfg.Cache.TTL, log.Logger)

	guessSvc := guessing.NewService(repos.Guesses, repos.Seasons, repos.Results, gate, log.Logger)
	codesSvc := codes.NewService(repos.Codes, clock, log.Logger)

	return &backend{
		cfg:      cfg,
		db:       db,
		repos:    repos,
		gate:     gate,
		engine:   engine,
		board:    board,
		guessing: guessSvc,
		codes:    codesSvc,
	}, nil
}

func (b *backend) close() {
	if err := b.db.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close database")
	}
}
