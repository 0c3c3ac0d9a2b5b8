package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickpour/quickpour-backend/pkg/types"
)

// CartItemInput is one cart line submitted to checkout. Prices arrive
// pre-resolved; checkout never re-reads the catalog.
type CartItemInput struct {
	ProductID        uuid.UUID
	InventoryID      *uuid.UUID
	StoreID          uuid.UUID
	LocationID       *uuid.UUID
	ProductName      string
	Quantity         int
	UnitPrice        decimal.Decimal
	UnitTax          decimal.Decimal
	UnitShippingCost decimal.Decimal
}

// CheckoutInput is the full request handed to the fan-out engine.
type CheckoutInput struct {
	CustomerID       uuid.UUID
	Items            []CartItemInput
	ShippingAddress  types.Address
	PaymentIntentRef string
}

// CreatedOrder is the per-group result returned to the caller.
type CreatedOrder struct {
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber int64           `json:"order_number"`
	StoreID     uuid.UUID       `json:"store_id"`
	StoreName   string          `json:"store_name"`
	LocationID  *uuid.UUID      `json:"location_id,omitempty"`
	Total       decimal.Decimal `json:"total"`
	DeliveryID  *uuid.UUID      `json:"delivery_id,omitempty"`
}

// Result aggregates every order produced by one checkout call.
type Result struct {
	Orders []CreatedOrder `json:"orders"`
}
