package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickpour/quickpour-backend/pkg/enums"
	"github.com/quickpour/quickpour-backend/pkg/types"
)

// Delivery is the dispatch record created for an order. At most one per order;
// orders without an active delivery company have none.
type Delivery struct {
	ID                    uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID               uuid.UUID            `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	DeliveryCompanyID     uuid.UUID            `gorm:"column:delivery_company_id;type:uuid;not null"`
	DriverID              *uuid.UUID           `gorm:"column:driver_id;type:uuid"`
	Status                enums.DeliveryStatus `gorm:"column:status;type:delivery_status;not null;default:'pending'"`
	DeliveryFee           decimal.Decimal      `gorm:"column:delivery_fee;type:numeric(12,2);not null;default:0"`
	PickupAddress         *types.Address       `gorm:"column:pickup_address;type:jsonb"`
	DropoffAddress        *types.Address       `gorm:"column:dropoff_address;type:jsonb"`
	RecipientName         string               `gorm:"column:recipient_name;not null"`
	CustomerNotes         *string              `gorm:"column:customer_notes"`
	EstimatedPickupTime   time.Time            `gorm:"column:estimated_pickup_time;not null"`
	EstimatedDeliveryTime time.Time            `gorm:"column:estimated_delivery_time;not null"`
	PickedUpAt            *time.Time           `gorm:"column:picked_up_at"`
	DeliveredAt           *time.Time           `gorm:"column:delivered_at"`
	CreatedAt             time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
