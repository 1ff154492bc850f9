// Package postgres implements the persistence interfaces with sqlx on
// PostgreSQL.
package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/voiestad/f1-backend/internal/config"
)

//go:embed schema.sql
var schema string

// Connect opens and pings a postgres pool configured per cfg.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}

	db, err := sqlx.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Migrate applies the idempotent schema.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Repos bundles every repository over one pool.
type Repos struct {
	Cutoffs      *CutoffRepo
	ScoringTable *ScoringTableRepo
	Guesses      *GuessRepo
	Seasons      *SeasonRepo
	Results      *ResultsRepo
	Snapshots    *SnapshotRepo
	Users        *UserRepo
	Codes        *CodesRepo
}

// NewRepos wires all repositories with a shared query timeout.
func NewRepos(db *sqlx.DB, timeout time.Duration) *Repos {
	return &Repos{
		Cutoffs:      NewCutoffRepo(db, timeout),
		ScoringTable: NewScoringTableRepo(db, timeout),
		Guesses:      NewGuessRepo(db, timeout),
		Seasons:      NewSeasonRepo(db, timeout),
		Results:      NewResultsRepo(db, timeout),
		Snapshots:    NewSnapshotRepo(db, timeout),
		Users:        NewUserRepo(db, timeout),
		Codes:        NewCodesRepo(db, timeout),
	}
}
