package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cresenventures/backend/internal/models"
)

type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

// UpsertLogin creates the user on first login and only refreshes the
// updated_at timestamp afterwards; an assigned role survives later logins.
func (s *UserStore) UpsertLogin(ctx context.Context, email string) (*models.User, error) {
	query := `
		INSERT INTO users (email, role)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET updated_at = now()
		RETURNING email, role, created_at, updated_at
	`

	var user models.User
	err := s.pool.QueryRow(ctx, query, email, models.RoleCustomer).
		Scan(&user.Email, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT email, role, created_at, updated_at FROM users WHERE email = $1`

	var user models.User
	err := s.pool.QueryRow(ctx, query, email).
		Scan(&user.Email, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
