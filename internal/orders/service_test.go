package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickpour/quickpour-backend/pkg/db/models"
	"github.com/quickpour/quickpour-backend/pkg/enums"
	pkgerrors "github.com/quickpour/quickpour-backend/pkg/errors"
	"github.com/quickpour/quickpour-backend/pkg/outbox"
	"github.com/quickpour/quickpour-backend/pkg/outbox/payloads"
	"github.com/quickpour/quickpour-backend/pkg/pagination"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubOrdersRepo struct {
	orders       map[uuid.UUID]*models.Order
	listRows     []models.Order
	statusWrites []enums.OrderStatus
	cancelledAt  *time.Time
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	return order, nil
}

func (s *stubOrdersRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	return nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if order, ok := s.orders[id]; ok {
		cpy := *order
		return &cpy, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.Order, error) {
	return s.listRows, nil
}

func (s *stubOrdersRepo) ListByStore(ctx context.Context, storeID uuid.UUID, params pagination.Params) ([]models.Order, error) {
	return s.listRows, nil
}

func (s *stubOrdersRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, cancelledAt *time.Time) error {
	s.statusWrites = append(s.statusWrites, status)
	s.cancelledAt = cancelledAt
	return nil
}

type stubOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

func newTestService(t *testing.T, repo Repository, publisher outboxPublisher) Service {
	t.Helper()
	svc, err := NewService(stubTxRunner{}, repo, publisher)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestTransitionStatusAllowed(t *testing.T) {
	orderID := uuid.New()
	repo := &stubOrdersRepo{
		orders: map[uuid.UUID]*models.Order{
			orderID: {ID: orderID, CustomerID: uuid.New(), StoreID: uuid.New(), Status: enums.OrderStatusPending},
		},
	}
	publisher := &stubOutbox{}
	svc := newTestService(t, repo, publisher)

	dto, err := svc.TransitionStatus(context.Background(), orderID, enums.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.Status != enums.OrderStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", dto.Status)
	}
	if len(repo.statusWrites) != 1 || repo.statusWrites[0] != enums.OrderStatusConfirmed {
		t.Fatalf("unexpected status writes %+v", repo.statusWrites)
	}
	if len(publisher.events) != 1 {
		t.Fatalf("expected one outbox event, got %d", len(publisher.events))
	}
	event := publisher.events[0]
	if event.EventType != enums.EventOrderStatusChanged {
		t.Fatalf("unexpected event type %s", event.EventType)
	}
	payload, ok := event.Data.(payloads.OrderStatusChangedEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", event.Data)
	}
	if payload.PreviousStatus != enums.OrderStatusPending || payload.Status != enums.OrderStatusConfirmed {
		t.Fatalf("payload mismatch %+v", payload)
	}
}

func TestTransitionStatusRejected(t *testing.T) {
	orderID := uuid.New()
	repo := &stubOrdersRepo{
		orders: map[uuid.UUID]*models.Order{
			orderID: {ID: orderID, Status: enums.OrderStatusDelivered},
		},
	}
	publisher := &stubOutbox{}
	svc := newTestService(t, repo, publisher)

	_, err := svc.TransitionStatus(context.Background(), orderID, enums.OrderStatusPending)
	if err == nil {
		t.Fatalf("expected error")
	}
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if len(publisher.events) != 0 {
		t.Fatalf("expected no events on rejection")
	}
}

func TestTransitionStatusCancelSetsTimestamp(t *testing.T) {
	orderID := uuid.New()
	repo := &stubOrdersRepo{
		orders: map[uuid.UUID]*models.Order{
			orderID: {ID: orderID, Status: enums.OrderStatusPending},
		},
	}
	svc := newTestService(t, repo, &stubOutbox{})

	dto, err := svc.TransitionStatus(context.Background(), orderID, enums.OrderStatusCancelled)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.cancelledAt == nil || dto.CancelledAt == nil {
		t.Fatalf("expected cancelled_at to be set")
	}
}

func TestTransitionStatusUnknownOrder(t *testing.T) {
	svc := newTestService(t, &stubOrdersRepo{}, &stubOutbox{})

	_, err := svc.TransitionStatus(context.Background(), uuid.New(), enums.OrderStatusConfirmed)
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestListForCustomerPaginates(t *testing.T) {
	now := time.Now()
	rows := make([]models.Order, 0, 3)
	for i := 0; i < 3; i++ {
		rows = append(rows, models.Order{
			ID:        uuid.New(),
			Status:    enums.OrderStatusPending,
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		})
	}
	repo := &stubOrdersRepo{listRows: rows}
	svc := newTestService(t, repo, &stubOutbox{})

	page, err := svc.ListForCustomer(context.Background(), uuid.New(), pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(page.Orders))
	}
	if page.NextCursor == nil {
		t.Fatalf("expected next cursor")
	}
	cursor, err := pagination.ParseCursor(*page.NextCursor)
	if err != nil {
		t.Fatalf("parse cursor: %v", err)
	}
	if cursor.ID != rows[1].ID {
		t.Fatalf("cursor should point at the last returned row")
	}
}

func TestListForCustomerLastPageHasNoCursor(t *testing.T) {
	repo := &stubOrdersRepo{listRows: []models.Order{{ID: uuid.New(), CreatedAt: time.Now()}}}
	svc := newTestService(t, repo, &stubOutbox{})

	page, err := svc.ListForCustomer(context.Background(), uuid.New(), pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.NextCursor != nil {
		t.Fatalf("expected no cursor on the last page")
	}
}
