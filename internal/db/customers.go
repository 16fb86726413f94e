package db

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cresenventures/backend/internal/models"
)

type CustomerStore struct {
	pool *pgxpool.Pool
}

func NewCustomerStore(pool *pgxpool.Pool) *CustomerStore {
	return &CustomerStore{pool: pool}
}

// SaveShipping upserts the shipping address independently of cart and user
// records. Rate lookups also call this as a documented side effect.
func (s *CustomerStore) SaveShipping(ctx context.Context, email string, shipping models.Address) error {
	shippingJSON, err := json.Marshal(shipping)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO customers (email, shipping)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET shipping = EXCLUDED.shipping
	`
	_, err = s.pool.Exec(ctx, query, email, shippingJSON)
	return err
}

func (s *CustomerStore) GetByEmail(ctx context.Context, email string) (*models.CustomerProfile, error) {
	query := `SELECT email, shipping FROM customers WHERE email = $1`

	var (
		profile      models.CustomerProfile
		shippingJSON []byte
	)
	err := s.pool.QueryRow(ctx, query, email).Scan(&profile.Email, &shippingJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(shippingJSON, &profile.Shipping); err != nil {
		return nil, err
	}
	return &profile, nil
}
