package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cresenventures/backend/internal/db"
	"github.com/cresenventures/backend/internal/models"
)

// In-memory stores mirroring the pgx store contracts, including the
// ErrNotFound mapping.

type fakeAttemptStore struct {
	mu       sync.Mutex
	byEmail  map[string]*models.AttemptedOrder
	upserts  int
	deletes  int
	clock    time.Time
	upsertFn func(*models.AttemptedOrder) error
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{
		byEmail: make(map[string]*models.AttemptedOrder),
		clock:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *fakeAttemptStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *fakeAttemptStore) Upsert(ctx context.Context, attempt *models.AttemptedOrder) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	s.upserts++
	if s.upsertFn != nil {
		if err := s.upsertFn(attempt); err != nil {
			return err
		}
	}

	now := s.tick()
	if existing, ok := s.byEmail[attempt.Email]; ok {
		attempt.ID = existing.ID
		attempt.CreatedAt = existing.CreatedAt
	} else {
		attempt.ID = uuid.New()
		attempt.CreatedAt = now
	}
	attempt.UpdatedAt = now

	stored := *attempt
	s.byEmail[attempt.Email] = &stored
	return nil
}

func (s *fakeAttemptStore) LatestByEmail(ctx context.Context, email string) (*models.AttemptedOrder, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, ok := s.byEmail[email]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *attempt
	return &copied, nil
}

func (s *fakeAttemptStore) ListByEmail(ctx context.Context, email string) ([]models.AttemptedOrder, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	var attempts []models.AttemptedOrder
	if attempt, ok := s.byEmail[email]; ok {
		attempts = append(attempts, *attempt)
	}
	return attempts, nil
}

func (s *fakeAttemptStore) List(ctx context.Context) ([]models.AttemptedOrder, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	attempts := make([]models.AttemptedOrder, 0, len(s.byEmail))
	for _, attempt := range s.byEmail {
		attempts = append(attempts, *attempt)
	}
	sort.Slice(attempts, func(i, j int) bool {
		return attempts[i].CreatedAt.After(attempts[j].CreatedAt)
	})
	return attempts, nil
}

func (s *fakeAttemptStore) Delete(ctx context.Context, ids []uuid.UUID) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deletes++
	for _, id := range ids {
		for email, attempt := range s.byEmail {
			if attempt.ID == id {
				delete(s.byEmail, email)
			}
		}
	}
	return nil
}

func (s *fakeAttemptStore) DeleteAll(ctx context.Context) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byEmail = make(map[string]*models.AttemptedOrder)
	return nil
}

type fakeOrderStore struct {
	mu        sync.Mutex
	orders    []*models.Order
	creates   int
	dispatchN int
	clock     time.Time
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		clock: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *fakeOrderStore) Create(ctx context.Context, order *models.Order) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creates++
	if order.PaymentID != "" {
		for _, existing := range s.orders {
			if existing.PaymentID == order.PaymentID {
				return db.ErrDuplicatePaymentID
			}
		}
	}
	s.clock = s.clock.Add(time.Second)
	order.ID = uuid.New()
	order.CreatedAt = s.clock

	stored := *order
	s.orders = append(s.orders, &stored)
	return nil
}

func (s *fakeOrderStore) GetByPaymentID(ctx context.Context, paymentID string) (*models.Order, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, order := range s.orders {
		if order.PaymentID == paymentID {
			copied := *order
			return &copied, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *fakeOrderStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, order := range s.orders {
		if order.ID == id {
			copied := *order
			return &copied, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *fakeOrderStore) ListByEmail(ctx context.Context, email string) ([]models.Order, error) {
	_ = ctx
	return s.list(func(o *models.Order) bool { return o.Email == email }), nil
}

func (s *fakeOrderStore) ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	_ = ctx
	return s.list(func(o *models.Order) bool { return o.Status == status }), nil
}

func (s *fakeOrderStore) List(ctx context.Context) ([]models.Order, error) {
	_ = ctx
	return s.list(func(*models.Order) bool { return true }), nil
}

func (s *fakeOrderStore) Dispatch(ctx context.Context, id uuid.UUID, shippingCode string) (bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dispatchN++
	for _, order := range s.orders {
		if order.ID == id {
			transitioned := order.Status != models.StatusDispatched
			order.ShippingCode = shippingCode
			order.Status = models.StatusDispatched
			return transitioned, nil
		}
	}
	return false, db.ErrNotFound
}

func (s *fakeOrderStore) DeleteAll(ctx context.Context) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = nil
	return nil
}

func (s *fakeOrderStore) list(match func(*models.Order) bool) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	var orders []models.Order
	for _, order := range s.orders {
		if match(order) {
			orders = append(orders, *order)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}

type fakeCartStore struct {
	mu      sync.Mutex
	byEmail map[string]*models.Cart
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{byEmail: make(map[string]*models.Cart)}
}

func (s *fakeCartStore) Save(ctx context.Context, email string, items []models.LineItem) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byEmail[email] = &models.Cart{Email: email, Items: items}
	return nil
}

func (s *fakeCartStore) GetByEmail(ctx context.Context, email string) (*models.Cart, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.byEmail[email]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *cart
	return &copied, nil
}

type fakeNotifier struct {
	mu         sync.Mutex
	confirmed  []uuid.UUID
	dispatched []uuid.UUID
}

func (n *fakeNotifier) OrderConfirmed(ctx context.Context, order *models.Order) {
	_ = ctx
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, order.ID)
}

func (n *fakeNotifier) OrderDispatched(ctx context.Context, order *models.Order) {
	_ = ctx
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dispatched = append(n.dispatched, order.ID)
}
