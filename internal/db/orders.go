package db

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cresenventures/backend/internal/models"
)

type OrderStore struct {
	pool *pgxpool.Pool
}

func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

const orderColumns = `id, name, email, phone, items, shipping_address, shipping_fee, payment_id, status, shipping_code, created_at`

func (s *OrderStore) Create(ctx context.Context, order *models.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return err
	}
	addressJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO orders (name, email, phone, items, shipping_address, shipping_fee, payment_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	paymentID := pgtype.Text{String: order.PaymentID, Valid: order.PaymentID != ""}
	err = s.pool.QueryRow(ctx, query,
		order.Name, order.Email, order.Phone, itemsJSON, addressJSON,
		order.ShippingFee, paymentID, string(order.Status),
	).Scan(&order.ID, &order.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "idx_orders_payment_id" {
		return ErrDuplicatePaymentID
	}
	return err
}

func (s *OrderStore) GetByPaymentID(ctx context.Context, paymentID string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE payment_id = $1`

	order, err := scanOrder(s.pool.QueryRow(ctx, query, paymentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderStore) ListByEmail(ctx context.Context, email string) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE email = $1 ORDER BY created_at DESC`
	return s.queryOrders(ctx, query, email)
}

func (s *OrderStore) ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE status = $1 ORDER BY created_at DESC`
	return s.queryOrders(ctx, query, string(status))
}

func (s *OrderStore) List(ctx context.Context) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return s.queryOrders(ctx, query)
}

// Dispatch sets the shipping code and moves the order to dispatched in one
// statement. The returned bool reports whether the status actually
// transitioned; a re-dispatch only replaces the code and returns false, so
// callers can skip the transition side effects.
func (s *OrderStore) Dispatch(ctx context.Context, id uuid.UUID, shippingCode string) (bool, error) {
	query := `
		UPDATE orders o
		SET shipping_code = $2,
		    status = $3
		FROM (SELECT id, status FROM orders WHERE id = $1 FOR UPDATE) prev
		WHERE o.id = prev.id
		RETURNING prev.status
	`
	var priorStatus string
	err := s.pool.QueryRow(ctx, query, id, shippingCode, string(models.StatusDispatched)).Scan(&priorStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, err
	}
	return priorStatus != string(models.StatusDispatched), nil
}

func (s *OrderStore) DeleteAll(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM orders`)
	return err
}

func (s *OrderStore) queryOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var (
		order        models.Order
		itemsJSON    []byte
		addressJSON  []byte
		paymentID    pgtype.Text
		status       string
		shippingCode pgtype.Text
	)
	err := row.Scan(
		&order.ID, &order.Name, &order.Email, &order.Phone,
		&itemsJSON, &addressJSON, &order.ShippingFee,
		&paymentID, &status, &shippingCode, &order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.Status = models.OrderStatus(status)
	if paymentID.Valid {
		order.PaymentID = paymentID.String
	}
	if shippingCode.Valid {
		order.ShippingCode = shippingCode.String
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(addressJSON, &order.ShippingAddress); err != nil {
		return nil, err
	}
	return &order, nil
}
