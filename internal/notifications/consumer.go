package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/quickpour/quickpour-backend/pkg/enums"
	"github.com/quickpour/quickpour-backend/pkg/logger"
	"github.com/quickpour/quickpour-backend/pkg/outbox"
	"github.com/quickpour/quickpour-backend/pkg/outbox/idempotency"
	"github.com/quickpour/quickpour-backend/pkg/outbox/payloads"
	"github.com/quickpour/quickpour-backend/pkg/types"
)

const orderNotificationConsumer = "order-notifications"

// notificationCreator issues the create_notification stored procedure call.
type notificationCreator interface {
	CreateNotification(ctx context.Context, userID uuid.UUID, notifType enums.NotificationType, title, body string, actionURL *string, data types.JSONMap) error
}

// Consumer watches order events and turns them into in-app notifications.
// Notifications are addressed to the order's customer id.
type Consumer struct {
	procs        notificationCreator
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	logg         *logger.Logger
}

// NewConsumer builds an order notification consumer.
func NewConsumer(procs notificationCreator, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if procs == nil {
		return nil, fmt.Errorf("procedure client required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("orders subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		procs:        procs,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := msg.Attributes["event_type"]
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	})

	handler, handled := c.handlerFor(enums.OutboxEventType(eventType))
	if !handled {
		c.logg.Info(logCtx, "skipping unhandled event")
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, orderNotificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	if err := handler(ctx, envelope.Data, logCtx); err != nil {
		c.logg.Error(logCtx, "notification handling failed", err)
		_ = c.idempotency.Delete(ctx, orderNotificationConsumer, eventID)
		return processResult{nack: true}
	}

	return processResult{ack: true}
}

type eventHandler func(ctx context.Context, data json.RawMessage, logCtx context.Context) error

func (c *Consumer) handlerFor(eventType enums.OutboxEventType) (eventHandler, bool) {
	switch eventType {
	case enums.EventOrderCreated:
		return c.handleOrderCreated, true
	case enums.EventOrderStatusChanged:
		return c.handleOrderStatusChanged, true
	default:
		return nil, false
	}
}

func (c *Consumer) handleOrderCreated(ctx context.Context, data json.RawMessage, logCtx context.Context) error {
	var payload payloads.OrderCreatedEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse order created payload: %w", err)
	}
	if payload.CustomerID == uuid.Nil {
		return fmt.Errorf("customer id missing")
	}

	logCtx = c.logg.WithOrderID(logCtx, payload.OrderID.String())
	link := fmt.Sprintf("/orders/%s", payload.OrderID)
	message := fmt.Sprintf("Your order of %d item(s) has been placed and is awaiting confirmation.", payload.ItemCount)
	extra := types.JSONMap{
		"orderId": payload.OrderID.String(),
		"storeId": payload.StoreID.String(),
	}

	if err := c.procs.CreateNotification(ctx, payload.CustomerID, enums.NotificationTypeOrderPlaced, "Order placed", message, &link, extra); err != nil {
		return err
	}
	c.logg.Info(logCtx, "customer notified of new order")
	return nil
}

func (c *Consumer) handleOrderStatusChanged(ctx context.Context, data json.RawMessage, logCtx context.Context) error {
	var payload payloads.OrderStatusChangedEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse order status payload: %w", err)
	}
	if payload.CustomerID == uuid.Nil {
		return fmt.Errorf("customer id missing")
	}

	logCtx = c.logg.WithOrderID(logCtx, payload.OrderID.String())
	link := fmt.Sprintf("/orders/%s", payload.OrderID)
	title := "Order updated"
	message := fmt.Sprintf("Your order is now %s.", payload.Status)
	switch payload.Status {
	case enums.OrderStatusOutForDelivery:
		title = "Order on the way"
		message = "Your order is out for delivery."
	case enums.OrderStatusDelivered:
		title = "Order delivered"
		message = "Your order has been delivered. Enjoy!"
	case enums.OrderStatusCancelled:
		title = "Order cancelled"
		message = "Your order has been cancelled."
	}
	extra := types.JSONMap{
		"orderId": payload.OrderID.String(),
		"status":  string(payload.Status),
	}

	if err := c.procs.CreateNotification(ctx, payload.CustomerID, enums.NotificationTypeOrderStatus, title, message, &link, extra); err != nil {
		return err
	}
	c.logg.Info(logCtx, "customer notified of status change")
	return nil
}
