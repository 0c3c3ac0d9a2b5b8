package helpers

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickpour/quickpour-backend/pkg/checkout"
)

// GroupKey identifies a fulfillment group. Items without an explicit location
// share the uuid.Nil sentinel so they collapse into one group per store.
type GroupKey struct {
	StoreID    uuid.UUID
	LocationID uuid.UUID
}

// Location returns the explicit location pointer for the key, nil for the
// sentinel.
func (k GroupKey) Location() *uuid.UUID {
	if k.LocationID == uuid.Nil {
		return nil
	}
	id := k.LocationID
	return &id
}

// ItemGroup is one (store, location) bucket in input order.
type ItemGroup struct {
	Key   GroupKey
	Items []checkout.CartItemInput
}

// GroupItems buckets the cart by (store, location) while preserving the
// first-occurrence order of the input list. Interleaved items for the same
// pair still land in a single group.
func GroupItems(items []checkout.CartItemInput) []ItemGroup {
	index := make(map[GroupKey]int, len(items))
	groups := make([]ItemGroup, 0, len(items))
	for _, item := range items {
		key := GroupKey{StoreID: item.StoreID}
		if item.LocationID != nil {
			key.LocationID = *item.LocationID
		}
		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, ItemGroup{Key: key})
		}
		groups[pos].Items = append(groups[pos].Items, item)
	}
	return groups
}

// GroupTotals carries the money sums for one group.
type GroupTotals struct {
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
}

// ComputeGroupTotals sums unit amounts times quantity across the group's
// items. Total is always the sum of the three components.
func ComputeGroupTotals(items []checkout.CartItemInput) GroupTotals {
	totals := GroupTotals{
		Subtotal:    decimal.Zero,
		TaxAmount:   decimal.Zero,
		DeliveryFee: decimal.Zero,
		Total:       decimal.Zero,
	}
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		totals.Subtotal = totals.Subtotal.Add(item.UnitPrice.Mul(qty))
		totals.TaxAmount = totals.TaxAmount.Add(item.UnitTax.Mul(qty))
		totals.DeliveryFee = totals.DeliveryFee.Add(item.UnitShippingCost.Mul(qty))
	}
	totals.Total = totals.Subtotal.Add(totals.TaxAmount).Add(totals.DeliveryFee)
	return totals
}

// LineTotal is the item's price contribution including tax.
func LineTotal(item checkout.CartItemInput) decimal.Decimal {
	qty := decimal.NewFromInt(int64(item.Quantity))
	return item.UnitPrice.Add(item.UnitTax).Mul(qty)
}

// ProductIDs collects the group's distinct product ids for the routing
// procedure, in first-occurrence order.
func ProductIDs(items []checkout.CartItemInput) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
