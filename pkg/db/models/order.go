package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickpour/quickpour-backend/pkg/enums"
	"github.com/quickpour/quickpour-backend/pkg/types"
)

// Order is the per-store order produced by checkout fan-out. One multi-store
// cart yields one Order row per distinct (store, location) pair.
type Order struct {
	ID               uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber      int64                 `gorm:"column:order_number;not null;default:nextval('order_number_seq')"`
	CustomerID       uuid.UUID             `gorm:"column:customer_id;type:uuid;not null"`
	StoreID          uuid.UUID             `gorm:"column:store_id;type:uuid;not null"`
	StoreLocationID  *uuid.UUID            `gorm:"column:store_location_id;type:uuid"`
	Status           enums.OrderStatus     `gorm:"column:status;type:order_status;not null;default:'pending'"`
	Subtotal         decimal.Decimal       `gorm:"column:subtotal;type:numeric(12,2);not null"`
	TaxAmount        decimal.Decimal       `gorm:"column:tax_amount;type:numeric(12,2);not null;default:0"`
	DeliveryFee      decimal.Decimal       `gorm:"column:delivery_fee;type:numeric(12,2);not null;default:0"`
	Total            decimal.Decimal       `gorm:"column:total;type:numeric(12,2);not null"`
	PaymentStatus    enums.PaymentStatus   `gorm:"column:payment_status;type:payment_status;not null;default:'pending'"`
	PaymentMethod    *string               `gorm:"column:payment_method"`
	PaymentIntentRef *string               `gorm:"column:payment_intent_ref"`
	FulfillmentType  enums.FulfillmentType `gorm:"column:fulfillment_type;type:fulfillment_type;not null;default:'delivery'"`
	DeliveryAddress  *types.Address        `gorm:"column:delivery_address;type:jsonb"`
	CustomerNotes    *string               `gorm:"column:customer_notes"`
	Items            []OrderItem           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Delivery         *Delivery             `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CancelledAt      *time.Time            `gorm:"column:cancelled_at"`
	CreatedAt        time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
