package checkout

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/quickpour/quickpour-backend/pkg/errors"
	"github.com/quickpour/quickpour-backend/pkg/types"
)

func validInput() CheckoutInput {
	return CheckoutInput{
		CustomerID: uuid.New(),
		Items: []CartItemInput{
			{
				ProductID:   uuid.New(),
				StoreID:     uuid.New(),
				ProductName: "Willamette Pinot Noir",
				Quantity:    2,
				UnitPrice:   decimal.NewFromFloat(24.99),
			},
		},
		ShippingAddress: types.Address{
			Name:   "Dana Whitfield",
			Street: "12 Vine St",
			City:   "Portland",
			State:  "OR",
		},
	}
}

func TestValidateInputOK(t *testing.T) {
	if err := ValidateInput(validInput()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateInputEmptyCart(t *testing.T) {
	input := validInput()
	input.Items = nil
	err := ValidateInput(input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateInputMissingCustomer(t *testing.T) {
	input := validInput()
	input.CustomerID = uuid.Nil
	if err := ValidateInput(input); err == nil {
		t.Fatal("expected error for missing customer")
	}
}

func TestValidateInputItemViolations(t *testing.T) {
	input := validInput()
	input.Items = append(input.Items,
		CartItemInput{ProductID: uuid.New(), StoreID: uuid.New(), ProductName: "Empty Case", Quantity: 0},
		CartItemInput{ProductID: uuid.New(), StoreID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromInt(-5)},
	)

	err := ValidateInput(input)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected coded error, got %T", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	violations, ok := details["violations"].([]ItemViolationDetail)
	if !ok {
		t.Fatalf("expected violations slice, got %T", details["violations"])
	}
	if len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(violations))
	}
	if violations[0].Index != 1 || violations[1].Index != 2 {
		t.Fatalf("violations should carry original indexes: %+v", violations)
	}
}
