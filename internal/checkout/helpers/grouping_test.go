package helpers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickpour/quickpour-backend/pkg/checkout"
)

func TestGroupItemsPreservesFirstOccurrenceOrder(t *testing.T) {
	t.Parallel()
	storeA := uuid.New()
	storeB := uuid.New()
	locA := uuid.New()

	items := []checkout.CartItemInput{
		{ProductID: uuid.New(), StoreID: storeB},
		{ProductID: uuid.New(), StoreID: storeA, LocationID: &locA},
		{ProductID: uuid.New(), StoreID: storeB},
		{ProductID: uuid.New(), StoreID: storeA},
	}

	groups := GroupItems(items)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if groups[0].Key.StoreID != storeB || len(groups[0].Items) != 2 {
		t.Fatalf("first group should be storeB with 2 items: %+v", groups[0])
	}
	if groups[1].Key.StoreID != storeA || groups[1].Key.LocationID != locA {
		t.Fatalf("second group should be storeA@locA: %+v", groups[1].Key)
	}
	if groups[2].Key.StoreID != storeA || groups[2].Key.LocationID != uuid.Nil {
		t.Fatalf("third group should be storeA without location: %+v", groups[2].Key)
	}
}

func TestGroupItemsSeparatesLocationsWithinStore(t *testing.T) {
	t.Parallel()
	store := uuid.New()
	loc1 := uuid.New()
	loc2 := uuid.New()

	items := []checkout.CartItemInput{
		{ProductID: uuid.New(), StoreID: store, LocationID: &loc1},
		{ProductID: uuid.New(), StoreID: store, LocationID: &loc2},
		{ProductID: uuid.New(), StoreID: store},
	}

	groups := GroupItems(items)
	if len(groups) != 3 {
		t.Fatalf("distinct locations must not merge, got %d groups", len(groups))
	}
}

func TestGroupKeyLocation(t *testing.T) {
	t.Parallel()
	key := GroupKey{StoreID: uuid.New()}
	if key.Location() != nil {
		t.Fatalf("sentinel key should report nil location")
	}
	loc := uuid.New()
	key.LocationID = loc
	got := key.Location()
	if got == nil || *got != loc {
		t.Fatalf("expected %s, got %v", loc, got)
	}
}

func TestComputeGroupTotals(t *testing.T) {
	t.Parallel()
	items := []checkout.CartItemInput{
		{
			Quantity:         2,
			UnitPrice:        decimal.NewFromFloat(10.50),
			UnitTax:          decimal.NewFromFloat(1.05),
			UnitShippingCost: decimal.NewFromFloat(2.00),
		},
		{
			Quantity:  1,
			UnitPrice: decimal.NewFromFloat(5.25),
		},
	}

	totals := ComputeGroupTotals(items)
	if !totals.Subtotal.Equal(decimal.NewFromFloat(26.25)) {
		t.Fatalf("subtotal = %s", totals.Subtotal)
	}
	if !totals.TaxAmount.Equal(decimal.NewFromFloat(2.10)) {
		t.Fatalf("tax = %s", totals.TaxAmount)
	}
	if !totals.DeliveryFee.Equal(decimal.NewFromFloat(4.00)) {
		t.Fatalf("fee = %s", totals.DeliveryFee)
	}
	want := totals.Subtotal.Add(totals.TaxAmount).Add(totals.DeliveryFee)
	if !totals.Total.Equal(want) {
		t.Fatalf("total %s should equal subtotal+tax+fee %s", totals.Total, want)
	}
}

func TestComputeGroupTotalsEmpty(t *testing.T) {
	t.Parallel()
	totals := ComputeGroupTotals(nil)
	if !totals.Total.IsZero() {
		t.Fatalf("empty group should total zero, got %s", totals.Total)
	}
}

func TestProductIDsDedupesAcrossLines(t *testing.T) {
	t.Parallel()
	first := uuid.New()
	second := uuid.New()

	items := []checkout.CartItemInput{
		{ProductID: first},
		{ProductID: second},
		{ProductID: first},
	}

	ids := ProductIDs(items)
	if len(ids) != 2 {
		t.Fatalf("expected 2 distinct product ids, got %d", len(ids))
	}
	if ids[0] != first || ids[1] != second {
		t.Fatalf("distinct ids should keep first-occurrence order: %v", ids)
	}
}
