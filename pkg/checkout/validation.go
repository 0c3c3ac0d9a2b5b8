package checkout

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/quickpour/quickpour-backend/pkg/errors"
)

// ItemViolationDetail exposes the data returned to callers when a line fails
// validation.
type ItemViolationDetail struct {
	Index       int       `json:"index"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	Reason      string    `json:"reason"`
}

// ValidateInput checks the structural requirements of a checkout request.
func ValidateInput(input CheckoutInput) error {
	if input.CustomerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
	}
	if strings.TrimSpace(input.ShippingAddress.Street) == "" || strings.TrimSpace(input.ShippingAddress.City) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping address requires street and city")
	}

	var violations []ItemViolationDetail
	for i, item := range input.Items {
		switch {
		case item.ProductID == uuid.Nil:
			violations = append(violations, violation(i, item, "missing product id"))
		case item.StoreID == uuid.Nil:
			violations = append(violations, violation(i, item, "missing store id"))
		case item.Quantity <= 0:
			violations = append(violations, violation(i, item, "quantity must be positive"))
		case item.UnitPrice.IsNegative() || item.UnitTax.IsNegative() || item.UnitShippingCost.IsNegative():
			violations = append(violations, violation(i, item, "negative amount"))
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation,
		fmt.Sprintf("%d invalid cart item(s)", len(violations))).WithDetails(map[string]any{
		"violations": violations,
	})
}

func violation(index int, item CartItemInput, reason string) ItemViolationDetail {
	return ItemViolationDetail{
		Index:       index,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		Reason:      reason,
	}
}
