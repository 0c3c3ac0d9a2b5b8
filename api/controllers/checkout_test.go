package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/quickpour/quickpour-backend/api/middleware"
	pkgcheckout "github.com/quickpour/quickpour-backend/pkg/checkout"
)

type testCheckoutService struct {
	executeFn func(ctx context.Context, input pkgcheckout.CheckoutInput) (*pkgcheckout.Result, error)
}

func (s *testCheckoutService) Execute(ctx context.Context, input pkgcheckout.CheckoutInput) (*pkgcheckout.Result, error) {
	if s.executeFn != nil {
		return s.executeFn(ctx, input)
	}
	return &pkgcheckout.Result{}, nil
}

func TestCheckoutMapsRequestToInput(t *testing.T) {
	customerID := uuid.New()
	storeID := uuid.New()
	productID := uuid.New()

	var captured pkgcheckout.CheckoutInput
	svc := &testCheckoutService{
		executeFn: func(ctx context.Context, input pkgcheckout.CheckoutInput) (*pkgcheckout.Result, error) {
			captured = input
			return &pkgcheckout.Result{Orders: []pkgcheckout.CreatedOrder{{OrderID: uuid.New(), StoreID: storeID}}}, nil
		},
	}

	body := `{
		"items": [
			{"product_id": "` + productID.String() + `", "store_id": "` + storeID.String() + `", "product_name": "Rye Whiskey 750ml", "quantity": 2, "unit_price": "24.99", "unit_tax": "2.00"}
		],
		"shipping_address": {"street": "12 Vine St", "city": "Portland", "state": "OR", "postal_code": "97201", "country": "US"},
		"payment_intent_ref": "pi_123"
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	req = req.WithContext(middleware.WithCustomerID(req.Context(), customerID.String()))

	resp := httptest.NewRecorder()
	Checkout(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if captured.CustomerID != customerID {
		t.Fatalf("customer id not taken from context")
	}
	if len(captured.Items) != 1 || captured.Items[0].ProductID != productID {
		t.Fatalf("items not mapped: %+v", captured.Items)
	}
	if captured.Items[0].Quantity != 2 {
		t.Fatalf("unexpected quantity %d", captured.Items[0].Quantity)
	}
	if captured.ShippingAddress.City != "Portland" {
		t.Fatalf("address not mapped: %+v", captured.ShippingAddress)
	}
	if captured.PaymentIntentRef != "pi_123" {
		t.Fatalf("payment ref not mapped")
	}

	var envelope struct {
		Data pkgcheckout.Result `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Orders) != 1 {
		t.Fatalf("expected 1 order in response")
	}
}

func TestCheckoutRejectsEmptyItems(t *testing.T) {
	svc := &testCheckoutService{
		executeFn: func(ctx context.Context, input pkgcheckout.CheckoutInput) (*pkgcheckout.Result, error) {
			t.Fatal("service should not be reached")
			return nil, nil
		},
	}

	body := `{"items": [], "shipping_address": {"street": "12 Vine St", "city": "Portland"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	req = req.WithContext(middleware.WithCustomerID(req.Context(), uuid.NewString()))

	resp := httptest.NewRecorder()
	Checkout(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestCheckoutRequiresCustomerContext(t *testing.T) {
	svc := &testCheckoutService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{}`))

	resp := httptest.NewRecorder()
	Checkout(svc, testLogger())(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}
