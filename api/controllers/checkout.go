package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickpour/quickpour-backend/api/middleware"
	"github.com/quickpour/quickpour-backend/api/responses"
	"github.com/quickpour/quickpour-backend/api/validators"
	checkoutsvc "github.com/quickpour/quickpour-backend/internal/checkout"
	pkgcheckout "github.com/quickpour/quickpour-backend/pkg/checkout"
	pkgerrors "github.com/quickpour/quickpour-backend/pkg/errors"
	"github.com/quickpour/quickpour-backend/pkg/logger"
	"github.com/quickpour/quickpour-backend/pkg/types"
)

// Checkout accepts the customer's cart and fans it out into per-store orders.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		customerID, err := customerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Execute(r.Context(), payload.toInput(customerID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

type checkoutRequest struct {
	Items            []checkoutItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress  types.Address         `json:"shipping_address" validate:"required"`
	PaymentIntentRef string                `json:"payment_intent_ref,omitempty"`
}

type checkoutItemRequest struct {
	ProductID        uuid.UUID       `json:"product_id" validate:"required"`
	InventoryID      *uuid.UUID      `json:"inventory_id,omitempty"`
	StoreID          uuid.UUID       `json:"store_id" validate:"required"`
	LocationID       *uuid.UUID      `json:"location_id,omitempty"`
	ProductName      string          `json:"product_name" validate:"required"`
	Quantity         int             `json:"quantity" validate:"required,min=1"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	UnitTax          decimal.Decimal `json:"unit_tax"`
	UnitShippingCost decimal.Decimal `json:"unit_shipping_cost"`
}

func (req checkoutRequest) toInput(customerID uuid.UUID) pkgcheckout.CheckoutInput {
	items := make([]pkgcheckout.CartItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, pkgcheckout.CartItemInput{
			ProductID:        item.ProductID,
			InventoryID:      item.InventoryID,
			StoreID:          item.StoreID,
			LocationID:       item.LocationID,
			ProductName:      item.ProductName,
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice,
			UnitTax:          item.UnitTax,
			UnitShippingCost: item.UnitShippingCost,
		})
	}
	return pkgcheckout.CheckoutInput{
		CustomerID:       customerID,
		Items:            items,
		ShippingAddress:  req.ShippingAddress,
		PaymentIntentRef: req.PaymentIntentRef,
	}
}

func customerIDFromContext(r *http.Request) (uuid.UUID, error) {
	raw := middleware.CustomerIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "customer context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id")
	}
	return id, nil
}
