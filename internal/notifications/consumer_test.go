package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickpour/quickpour-backend/pkg/enums"
	"github.com/quickpour/quickpour-backend/pkg/logger"
	"github.com/quickpour/quickpour-backend/pkg/outbox"
	"github.com/quickpour/quickpour-backend/pkg/outbox/idempotency"
	"github.com/quickpour/quickpour-backend/pkg/outbox/payloads"
	"github.com/quickpour/quickpour-backend/pkg/types"
)

type notificationCall struct {
	userID    uuid.UUID
	notifType enums.NotificationType
	title     string
	body      string
	actionURL *string
	data      types.JSONMap
}

type stubCreator struct {
	calls []notificationCall
	err   error
}

func (s *stubCreator) CreateNotification(_ context.Context, userID uuid.UUID, notifType enums.NotificationType, title, body string, actionURL *string, data types.JSONMap) error {
	if s.err != nil {
		return s.err
	}
	s.calls = append(s.calls, notificationCall{
		userID:    userID,
		notifType: notifType,
		title:     title,
		body:      body,
		actionURL: actionURL,
		data:      data,
	})
	return nil
}

type memoryStore struct {
	keys    map[string]bool
	deleted []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{keys: map[string]bool{}}
}

func (s *memoryStore) Get(context.Context, string) (string, error) { return "", nil }

func (s *memoryStore) SetNX(_ context.Context, key string, _ any, _ time.Duration) (bool, error) {
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func (s *memoryStore) IdempotencyKey(scope, id string) string {
	return "qp:idempotency:" + scope + ":" + id
}

func (s *memoryStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.keys, key)
		s.deleted = append(s.deleted, key)
	}
	return nil
}

func newTestConsumer(t *testing.T, creator *stubCreator, store *memoryStore) *Consumer {
	t.Helper()
	manager, err := idempotency.NewManager(store, time.Hour)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return &Consumer{
		procs:       creator,
		idempotency: manager,
		logg:        logger.New(logger.Options{Output: io.Discard}),
	}
}

func buildMessage(t *testing.T, eventType enums.OutboxEventType, payload any) *pubsub.Message {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	envelope := outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
	raw, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return &pubsub.Message{
		ID:         uuid.NewString(),
		Data:       raw,
		Attributes: map[string]string{"event_type": string(eventType)},
	}
}

func TestConsumerOrderCreatedNotifiesCustomer(t *testing.T) {
	creator := &stubCreator{}
	consumer := newTestConsumer(t, creator, newMemoryStore())

	customerID := uuid.New()
	orderID := uuid.New()
	msg := buildMessage(t, enums.EventOrderCreated, payloads.OrderCreatedEvent{
		OrderID:         orderID,
		CustomerID:      customerID,
		StoreID:         uuid.New(),
		FulfillmentType: enums.FulfillmentTypeDelivery,
		Total:           decimal.NewFromFloat(42.50),
		ItemCount:       3,
	})

	result := consumer.process(context.Background(), msg)
	if !result.ack || result.nack {
		t.Fatalf("expected ack, got %+v", result)
	}
	if len(creator.calls) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(creator.calls))
	}

	call := creator.calls[0]
	if call.userID != customerID {
		t.Fatalf("notification addressed to %s, want customer %s", call.userID, customerID)
	}
	if call.notifType != enums.NotificationTypeOrderPlaced {
		t.Fatalf("unexpected type %s", call.notifType)
	}
	if call.actionURL == nil || *call.actionURL != "/orders/"+orderID.String() {
		t.Fatalf("unexpected action url %v", call.actionURL)
	}
	if call.data["orderId"] != orderID.String() {
		t.Fatalf("payload missing order id")
	}
}

func TestConsumerStatusChangeUsesStatusCopy(t *testing.T) {
	creator := &stubCreator{}
	consumer := newTestConsumer(t, creator, newMemoryStore())

	msg := buildMessage(t, enums.EventOrderStatusChanged, payloads.OrderStatusChangedEvent{
		OrderID:        uuid.New(),
		CustomerID:     uuid.New(),
		StoreID:        uuid.New(),
		PreviousStatus: enums.OrderStatusOutForDelivery,
		Status:         enums.OrderStatusDelivered,
	})

	result := consumer.process(context.Background(), msg)
	if !result.ack {
		t.Fatalf("expected ack, got %+v", result)
	}
	if len(creator.calls) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(creator.calls))
	}
	call := creator.calls[0]
	if call.notifType != enums.NotificationTypeOrderStatus {
		t.Fatalf("unexpected type %s", call.notifType)
	}
	if call.title != "Order delivered" {
		t.Fatalf("unexpected title %q", call.title)
	}
}

func TestConsumerSkipsUnhandledEvents(t *testing.T) {
	creator := &stubCreator{}
	consumer := newTestConsumer(t, creator, newMemoryStore())

	msg := buildMessage(t, enums.EventDeliveryCreated, payloads.DeliveryCreatedEvent{
		DeliveryID: uuid.New(),
		OrderID:    uuid.New(),
	})

	result := consumer.process(context.Background(), msg)
	if !result.ack {
		t.Fatalf("expected ack for unhandled event")
	}
	if len(creator.calls) != 0 {
		t.Fatalf("expected no notifications")
	}
}

func TestConsumerIsIdempotentPerEvent(t *testing.T) {
	creator := &stubCreator{}
	consumer := newTestConsumer(t, creator, newMemoryStore())

	msg := buildMessage(t, enums.EventOrderCreated, payloads.OrderCreatedEvent{
		OrderID:    uuid.New(),
		CustomerID: uuid.New(),
		StoreID:    uuid.New(),
		ItemCount:  1,
	})

	first := consumer.process(context.Background(), msg)
	second := consumer.process(context.Background(), msg)
	if !first.ack || !second.ack {
		t.Fatalf("expected both deliveries acked")
	}
	if len(creator.calls) != 1 {
		t.Fatalf("expected a single notification, got %d", len(creator.calls))
	}
}

func TestConsumerNacksAndReleasesKeyOnFailure(t *testing.T) {
	creator := &stubCreator{err: errors.New("procedure unavailable")}
	store := newMemoryStore()
	consumer := newTestConsumer(t, creator, store)

	msg := buildMessage(t, enums.EventOrderCreated, payloads.OrderCreatedEvent{
		OrderID:    uuid.New(),
		CustomerID: uuid.New(),
		StoreID:    uuid.New(),
		ItemCount:  1,
	})

	result := consumer.process(context.Background(), msg)
	if !result.nack {
		t.Fatalf("expected nack on handler failure")
	}
	if len(store.deleted) != 1 {
		t.Fatalf("expected processed key released for retry")
	}
}

func TestConsumerAcksMalformedEnvelope(t *testing.T) {
	creator := &stubCreator{}
	consumer := newTestConsumer(t, creator, newMemoryStore())

	msg := &pubsub.Message{
		ID:         uuid.NewString(),
		Data:       []byte("{not json"),
		Attributes: map[string]string{"event_type": string(enums.EventOrderCreated)},
	}

	result := consumer.process(context.Background(), msg)
	if !result.ack || result.nack {
		t.Fatalf("malformed envelope should ack, got %+v", result)
	}
	if len(creator.calls) != 0 {
		t.Fatalf("expected no notifications")
	}
}
