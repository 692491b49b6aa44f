// Package user implements the User repository using PostgreSQL.
package user

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okutsenko/flashwords/internal/adapter/postgres"
	"github.com/okutsenko/flashwords/internal/domain"
)

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const existsSQL = `
SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1)`

const createSQL = `
INSERT INTO users (user_id, user_name) VALUES ($1, $2)`

const getByIDSQL = `
SELECT user_id, user_name, created_at FROM users WHERE user_id = $1`

// Exists reports whether a user row with the given id is present.
func (r *Repo) Exists(ctx context.Context, userID int64) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	if err := querier.QueryRow(ctx, existsSQL, userID).Scan(&exists); err != nil {
		return false, postgres.MapError(err, "user", userID)
	}

	return exists, nil
}

// Create inserts a new user. A second insert with the same id maps to
// domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, u domain.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, createSQL, u.ID, u.Name); err != nil {
		return postgres.MapError(err, "user", u.ID)
	}

	return nil
}

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var u domain.User
	err := querier.QueryRow(ctx, getByIDSQL, userID).Scan(&u.ID, &u.Name, &u.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "user", userID)
	}

	return &u, nil
}
