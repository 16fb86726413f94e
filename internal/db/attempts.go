package db

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cresenventures/backend/internal/models"
)

type AttemptStore struct {
	pool *pgxpool.Pool
}

func NewAttemptStore(pool *pgxpool.Pool) *AttemptStore {
	return &AttemptStore{pool: pool}
}

const attemptColumns = `id, email, name, phone, items, shipping_address, shipping_fee, created_at, updated_at`

// Upsert keeps at most one live attempted order per email: the first call
// inserts, later calls overwrite every mutable field and bump updated_at.
func (s *AttemptStore) Upsert(ctx context.Context, attempt *models.AttemptedOrder) error {
	itemsJSON, err := json.Marshal(attempt.Items)
	if err != nil {
		return err
	}
	addressJSON, err := json.Marshal(attempt.ShippingAddress)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO attempted_orders (email, name, phone, items, shipping_address, shipping_fee)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			items = EXCLUDED.items,
			shipping_address = EXCLUDED.shipping_address,
			shipping_fee = EXCLUDED.shipping_fee,
			updated_at = now()
		RETURNING id, created_at, updated_at
	`
	return s.pool.QueryRow(ctx, query,
		attempt.Email, attempt.Name, attempt.Phone, itemsJSON, addressJSON, attempt.ShippingFee,
	).Scan(&attempt.ID, &attempt.CreatedAt, &attempt.UpdatedAt)
}

// LatestByEmail returns the most recently updated attempt for the email.
// The unique key should make duplicates impossible; the ordering is a
// defensive read against legacy rows.
func (s *AttemptStore) LatestByEmail(ctx context.Context, email string) (*models.AttemptedOrder, error) {
	query := `SELECT ` + attemptColumns + ` FROM attempted_orders WHERE email = $1 ORDER BY updated_at DESC LIMIT 1`

	row := s.pool.QueryRow(ctx, query, email)
	attempt, err := scanAttempt(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return attempt, nil
}

func (s *AttemptStore) ListByEmail(ctx context.Context, email string) ([]models.AttemptedOrder, error) {
	query := `SELECT ` + attemptColumns + ` FROM attempted_orders WHERE email = $1 ORDER BY updated_at DESC`
	return s.queryAttempts(ctx, query, email)
}

// List returns every attempted order, newest first by creation time.
func (s *AttemptStore) List(ctx context.Context) ([]models.AttemptedOrder, error) {
	query := `SELECT ` + attemptColumns + ` FROM attempted_orders ORDER BY created_at DESC`
	return s.queryAttempts(ctx, query)
}

// Delete removes the given attempts. Missing ids are not an error, which
// keeps reconciliation retries idempotent.
func (s *AttemptStore) Delete(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx, `DELETE FROM attempted_orders WHERE id = ANY($1)`, ids)
	return err
}

func (s *AttemptStore) DeleteAll(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM attempted_orders`)
	return err
}

func (s *AttemptStore) queryAttempts(ctx context.Context, query string, args ...any) ([]models.AttemptedOrder, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []models.AttemptedOrder
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, *attempt)
	}
	return attempts, rows.Err()
}

func scanAttempt(row pgx.Row) (*models.AttemptedOrder, error) {
	var (
		attempt     models.AttemptedOrder
		itemsJSON   []byte
		addressJSON []byte
	)
	err := row.Scan(
		&attempt.ID, &attempt.Email, &attempt.Name, &attempt.Phone,
		&itemsJSON, &addressJSON, &attempt.ShippingFee,
		&attempt.CreatedAt, &attempt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &attempt.Items); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(addressJSON, &attempt.ShippingAddress); err != nil {
		return nil, err
	}
	return &attempt, nil
}
