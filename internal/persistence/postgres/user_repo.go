package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/voiestad/f1-backend/internal/f1"
	"github.com/voiestad/f1-backend/internal/persistence"
)

// UserRepo implements persistence.UserRepo.
type UserRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewUserRepo(db *sqlx.DB, timeout time.Duration) *UserRepo {
	return &UserRepo{db: db, timeout: timeout}
}

func (r *UserRepo) User(ctx context.Context, id uuid.UUID) (persistence.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var user persistence.User
	err := r.db.GetContext(ctx, &user, `
		SELECT id, google_id, username FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.User{}, fmt.Errorf("user %s: %w", id, f1.ErrNotFound)
	}
	if err != nil {
		return persistence.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *UserRepo) UserByGoogleID(ctx context.Context, googleID string) (persistence.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var user persistence.User
	err := r.db.GetContext(ctx, &user, `
		SELECT id, google_id, username FROM users WHERE google_id = $1`, googleID)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.User{}, fmt.Errorf("google user: %w", f1.ErrNotFound)
	}
	if err != nil {
		return persistence.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *UserRepo) AddUser(ctx context.Context, username, googleID string) (uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	id := uuid.New()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, google_id, username, username_upper) VALUES ($1, $2, $3, $4)`,
		id, googleID, username, strings.ToUpper(username))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to add user: %w", err)
	}
	return id, nil
}

func (r *UserRepo) Users(ctx context.Context) ([]persistence.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var users []persistence.User
	err := r.db.SelectContext(ctx, &users, `
		SELECT id, google_id, username FROM users ORDER BY username_upper`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
