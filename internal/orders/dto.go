package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickpour/quickpour-backend/pkg/db/models"
	"github.com/quickpour/quickpour-backend/pkg/enums"
	"github.com/quickpour/quickpour-backend/pkg/types"
)

// OrderDTO is the API representation of an order with its items and delivery.
type OrderDTO struct {
	ID              uuid.UUID             `json:"id"`
	OrderNumber     int64                 `json:"order_number"`
	CustomerID      uuid.UUID             `json:"customer_id"`
	StoreID         uuid.UUID             `json:"store_id"`
	StoreLocationID *uuid.UUID            `json:"store_location_id,omitempty"`
	Status          enums.OrderStatus     `json:"status"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	TaxAmount       decimal.Decimal       `json:"tax_amount"`
	DeliveryFee     decimal.Decimal       `json:"delivery_fee"`
	Total           decimal.Decimal       `json:"total"`
	PaymentStatus   enums.PaymentStatus   `json:"payment_status"`
	FulfillmentType enums.FulfillmentType `json:"fulfillment_type"`
	DeliveryAddress *types.Address        `json:"delivery_address,omitempty"`
	CustomerNotes   *string               `json:"customer_notes,omitempty"`
	Items           []OrderItemDTO        `json:"items,omitempty"`
	Delivery        *DeliveryDTO          `json:"delivery,omitempty"`
	CancelledAt     *time.Time            `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// OrderItemDTO is the API representation of an order line.
type OrderItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// DeliveryDTO is the API representation of a dispatch record.
type DeliveryDTO struct {
	ID                    uuid.UUID            `json:"id"`
	OrderID               uuid.UUID            `json:"order_id"`
	DeliveryCompanyID     uuid.UUID            `json:"delivery_company_id"`
	DriverID              *uuid.UUID           `json:"driver_id,omitempty"`
	Status                enums.DeliveryStatus `json:"status"`
	DeliveryFee           decimal.Decimal      `json:"delivery_fee"`
	PickupAddress         *types.Address       `json:"pickup_address,omitempty"`
	DropoffAddress        *types.Address       `json:"dropoff_address,omitempty"`
	RecipientName         string               `json:"recipient_name"`
	EstimatedPickupTime   time.Time            `json:"estimated_pickup_time"`
	EstimatedDeliveryTime time.Time            `json:"estimated_delivery_time"`
	PickedUpAt            *time.Time           `json:"picked_up_at,omitempty"`
	DeliveredAt           *time.Time           `json:"delivered_at,omitempty"`
}

// OrderFromModel maps the persisted order into a DTO.
func OrderFromModel(m *models.Order) *OrderDTO {
	if m == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:              m.ID,
		OrderNumber:     m.OrderNumber,
		CustomerID:      m.CustomerID,
		StoreID:         m.StoreID,
		StoreLocationID: m.StoreLocationID,
		Status:          m.Status,
		Subtotal:        m.Subtotal,
		TaxAmount:       m.TaxAmount,
		DeliveryFee:     m.DeliveryFee,
		Total:           m.Total,
		PaymentStatus:   m.PaymentStatus,
		FulfillmentType: m.FulfillmentType,
		DeliveryAddress: m.DeliveryAddress,
		CustomerNotes:   m.CustomerNotes,
		Delivery:        DeliveryFromModel(m.Delivery),
		CancelledAt:     m.CancelledAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	for i := range m.Items {
		dto.Items = append(dto.Items, ItemFromModel(&m.Items[i]))
	}
	return dto
}

// ItemFromModel maps an order item into a DTO.
func ItemFromModel(m *models.OrderItem) OrderItemDTO {
	if m == nil {
		return OrderItemDTO{}
	}
	return OrderItemDTO{
		ID:          m.ID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		TaxAmount:   m.TaxAmount,
		TotalPrice:  m.TotalPrice,
	}
}

// DeliveryFromModel maps a delivery into a DTO.
func DeliveryFromModel(m *models.Delivery) *DeliveryDTO {
	if m == nil {
		return nil
	}
	return &DeliveryDTO{
		ID:                    m.ID,
		OrderID:               m.OrderID,
		DeliveryCompanyID:     m.DeliveryCompanyID,
		DriverID:              m.DriverID,
		Status:                m.Status,
		DeliveryFee:           m.DeliveryFee,
		PickupAddress:         m.PickupAddress,
		DropoffAddress:        m.DropoffAddress,
		RecipientName:         m.RecipientName,
		EstimatedPickupTime:   m.EstimatedPickupTime,
		EstimatedDeliveryTime: m.EstimatedDeliveryTime,
		PickedUpAt:            m.PickedUpAt,
		DeliveredAt:           m.DeliveredAt,
	}
}
