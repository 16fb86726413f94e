package db

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cresenventures/backend/internal/models"
)

type CartStore struct {
	pool *pgxpool.Pool
}

func NewCartStore(pool *pgxpool.Pool) *CartStore {
	return &CartStore{pool: pool}
}

// Save replaces the whole item sequence for the email, last write wins.
func (s *CartStore) Save(ctx context.Context, email string, items []models.LineItem) error {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO carts (email, items)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET items = EXCLUDED.items, updated_at = now()
	`
	_, err = s.pool.Exec(ctx, query, email, itemsJSON)
	return err
}

func (s *CartStore) GetByEmail(ctx context.Context, email string) (*models.Cart, error) {
	query := `SELECT email, items, created_at, updated_at FROM carts WHERE email = $1`

	var (
		cart      models.Cart
		itemsJSON []byte
	)
	err := s.pool.QueryRow(ctx, query, email).
		Scan(&cart.Email, &itemsJSON, &cart.CreatedAt, &cart.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &cart.Items); err != nil {
		return nil, err
	}
	return &cart, nil
}
