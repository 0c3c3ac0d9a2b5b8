package payloads

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickpour/quickpour-backend/pkg/enums"
)

// OrderCreatedEvent signals that checkout produced a new store order.
type OrderCreatedEvent struct {
	OrderID         uuid.UUID             `json:"order_id"`
	CustomerID      uuid.UUID             `json:"customer_id"`
	StoreID         uuid.UUID             `json:"store_id"`
	StoreLocationID *uuid.UUID            `json:"store_location_id,omitempty"`
	FulfillmentType enums.FulfillmentType `json:"fulfillment_type"`
	Total           decimal.Decimal       `json:"total"`
	ItemCount       int                   `json:"item_count"`
}

// OrderStatusChangedEvent is emitted whenever an order transitions status.
type OrderStatusChangedEvent struct {
	OrderID        uuid.UUID         `json:"order_id"`
	CustomerID     uuid.UUID         `json:"customer_id"`
	StoreID        uuid.UUID         `json:"store_id"`
	PreviousStatus enums.OrderStatus `json:"previous_status"`
	Status         enums.OrderStatus `json:"status"`
}

// DeliveryCreatedEvent reports a delivery record created during dispatch.
type DeliveryCreatedEvent struct {
	DeliveryID        uuid.UUID            `json:"delivery_id"`
	OrderID           uuid.UUID            `json:"order_id"`
	DeliveryCompanyID uuid.UUID            `json:"delivery_company_id"`
	Status            enums.DeliveryStatus `json:"status"`
	AutoAssigned      bool                 `json:"auto_assigned"`
}

// DeliveryUnassignedEvent reports an order that dispatch could not cover.
type DeliveryUnassignedEvent struct {
	OrderID uuid.UUID `json:"order_id"`
	StoreID uuid.UUID `json:"store_id"`
	Reason  string    `json:"reason,omitempty"`
}

// NotificationRequestedEvent asks the notification worker to persist an alert.
type NotificationRequestedEvent struct {
	UserID  uuid.UUID              `json:"user_id"`
	OrderID uuid.UUID              `json:"order_id"`
	Type    enums.NotificationType `json:"type"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	Data    map[string]any         `json:"data,omitempty"`
}
