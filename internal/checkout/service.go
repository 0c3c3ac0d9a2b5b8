package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/quickpour/quickpour-backend/internal/checkout/helpers"
	"github.com/quickpour/quickpour-backend/internal/fulfillment"
	"github.com/quickpour/quickpour-backend/internal/orders"
	"github.com/quickpour/quickpour-backend/internal/stores"
	pkgcheckout "github.com/quickpour/quickpour-backend/pkg/checkout"
	"github.com/quickpour/quickpour-backend/pkg/db/models"
	"github.com/quickpour/quickpour-backend/pkg/enums"
	pkgerrors "github.com/quickpour/quickpour-backend/pkg/errors"
	"github.com/quickpour/quickpour-backend/pkg/logger"
	"github.com/quickpour/quickpour-backend/pkg/metrics"
	"github.com/quickpour/quickpour-backend/pkg/outbox"
	"github.com/quickpour/quickpour-backend/pkg/outbox/payloads"
	"github.com/quickpour/quickpour-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type storeLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*stores.StoreDTO, error)
}

type locationResolver interface {
	Resolve(ctx context.Context, req fulfillment.Request) (*models.StoreLocation, error)
}

type deliveryDispatcher interface {
	Dispatch(ctx context.Context, order *models.Order, pickup *models.StoreLocation) (*models.Delivery, error)
}

type inventoryCaller interface {
	DecrementInventory(ctx context.Context, inventoryID uuid.UUID, quantity int) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service executes the checkout fan-out: one order per (store, location)
// group, each followed by inventory, dispatch, and notification side steps.
type Service interface {
	Execute(ctx context.Context, input pkgcheckout.CheckoutInput) (*pkgcheckout.Result, error)
}

type service struct {
	tx         txRunner
	ordersRepo orders.Repository
	storeSvc   storeLoader
	resolver   locationResolver
	dispatcher deliveryDispatcher
	inventory  inventoryCaller
	outbox     outboxPublisher
	metrics    *metrics.CheckoutMetrics
	logg       *logger.Logger
}

// NewService builds the fan-out service.
func NewService(
	tx txRunner,
	ordersRepo orders.Repository,
	storeSvc storeLoader,
	resolver locationResolver,
	dispatcher deliveryDispatcher,
	inventory inventoryCaller,
	publisher outboxPublisher,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if storeSvc == nil {
		return nil, fmt.Errorf("store service required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("fulfillment resolver required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatch service required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("inventory caller required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		tx:         tx,
		ordersRepo: ordersRepo,
		storeSvc:   storeSvc,
		resolver:   resolver,
		dispatcher: dispatcher,
		inventory:  inventory,
		outbox:     publisher,
		metrics:    checkoutMetrics,
		logg:       logg,
	}, nil
}

// Execute runs the fan-out. Groups are processed in first-occurrence order of
// the input list. An order-insert failure aborts the whole call; orders
// already persisted by earlier groups stay. The per-group side steps (items,
// inventory, dispatch) are each best effort. The sequence is deliberately not
// one transaction: each order commits on its own.
func (s *service) Execute(ctx context.Context, input pkgcheckout.CheckoutInput) (*pkgcheckout.Result, error) {
	start := time.Now()

	if err := pkgcheckout.ValidateInput(input); err != nil {
		s.metrics.ObserveCall("rejected", 0, time.Since(start))
		return nil, err
	}

	ctx = s.withCustomer(ctx, input.CustomerID)
	groups := helpers.GroupItems(input.Items)
	storeCache := map[uuid.UUID]*stores.StoreDTO{}
	created := make([]pkgcheckout.CreatedOrder, 0, len(groups))

	for _, group := range groups {
		store, err := s.loadStore(ctx, group.Key.StoreID, storeCache)
		if err != nil {
			s.metrics.ObserveCall("failure", len(created), time.Since(start))
			return nil, err
		}

		location := s.resolveLocation(ctx, group, input.ShippingAddress)
		order, err := s.createOrder(ctx, input, group, location)
		if err != nil {
			s.metrics.ObserveCall("failure", len(created), time.Since(start))
			return nil, err
		}

		s.insertItems(ctx, order, group.Items)
		s.decrementInventory(ctx, order, group.Items)
		delivery := s.dispatch(ctx, order, location)

		result := pkgcheckout.CreatedOrder{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			StoreID:     store.ID,
			StoreName:   store.Name,
			LocationID:  order.StoreLocationID,
			Total:       order.Total,
		}
		if delivery != nil {
			id := delivery.ID
			result.DeliveryID = &id
		}
		created = append(created, result)
	}

	s.metrics.ObserveCall("success", len(created), time.Since(start))
	return &pkgcheckout.Result{Orders: created}, nil
}

func (s *service) loadStore(ctx context.Context, storeID uuid.UUID, cache map[uuid.UUID]*stores.StoreDTO) (*stores.StoreDTO, error) {
	if store, ok := cache[storeID]; ok {
		return store, nil
	}
	store, err := s.storeSvc.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	cache[storeID] = store
	return store, nil
}

// resolveLocation never fails the call. A resolver error means the order is
// created without a fulfillment site. Customer coordinates ride along when
// the shipping address carries both.
func (s *service) resolveLocation(ctx context.Context, group helpers.ItemGroup, address types.Address) *models.StoreLocation {
	req := fulfillment.Request{
		StoreID:    group.Key.StoreID,
		LocationID: group.Key.Location(),
		ProductIDs: helpers.ProductIDs(group.Items),
	}
	if address.HasCoordinates() {
		req.Lat = address.Lat
		req.Lng = address.Lng
	}
	location, err := s.resolver.Resolve(ctx, req)
	if err != nil {
		s.metrics.IncStepFailure("fulfillment")
		s.warnStep(ctx, group.Key.StoreID, "resolve fulfillment location", err)
		return nil
	}
	return location
}

func (s *service) createOrder(ctx context.Context, input pkgcheckout.CheckoutInput, group helpers.ItemGroup, location *models.StoreLocation) (*models.Order, error) {
	totals := helpers.ComputeGroupTotals(group.Items)

	address := input.ShippingAddress
	order := &models.Order{
		CustomerID:      input.CustomerID,
		StoreID:         group.Key.StoreID,
		Status:          enums.OrderStatusPending,
		Subtotal:        totals.Subtotal,
		TaxAmount:       totals.TaxAmount,
		DeliveryFee:     totals.DeliveryFee,
		Total:           totals.Total,
		PaymentStatus:   enums.PaymentStatusPending,
		FulfillmentType: enums.FulfillmentTypeDelivery,
		DeliveryAddress: &address,
	}
	if location != nil {
		id := location.ID
		order.StoreLocationID = &id
	}
	if input.PaymentIntentRef != "" {
		ref := input.PaymentIntentRef
		order.PaymentIntentRef = &ref
	}
	if address.Notes != "" {
		notes := address.Notes
		order.CustomerNotes = &notes
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.ordersRepo.WithTx(tx)
		if _, err := repo.CreateOrder(ctx, order); err != nil {
			return err
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Data: payloads.OrderCreatedEvent{
				OrderID:         order.ID,
				CustomerID:      order.CustomerID,
				StoreID:         order.StoreID,
				StoreLocationID: order.StoreLocationID,
				FulfillmentType: order.FulfillmentType,
				Total:           order.Total,
				ItemCount:       len(group.Items),
			},
			Version: 1,
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return order, nil
}

// insertItems is best effort: a failed batch is logged and the order still
// counts as created.
func (s *service) insertItems(ctx context.Context, order *models.Order, items []pkgcheckout.CartItemInput) {
	rows := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		rows = append(rows, models.OrderItem{
			OrderID:     order.ID,
			ProductID:   item.ProductID,
			InventoryID: item.InventoryID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TaxAmount:   item.UnitTax.Mul(decimalFromInt(item.Quantity)),
			TotalPrice:  helpers.LineTotal(item),
		})
	}
	if err := s.ordersRepo.CreateOrderItems(ctx, rows); err != nil {
		s.metrics.IncStepFailure("order_items")
		s.warnStep(s.withOrder(ctx, order.ID), order.StoreID, "insert order items", err)
	}
}

func (s *service) decrementInventory(ctx context.Context, order *models.Order, items []pkgcheckout.CartItemInput) {
	for _, item := range items {
		if item.InventoryID == nil {
			continue
		}
		if err := s.inventory.DecrementInventory(ctx, *item.InventoryID, item.Quantity); err != nil {
			s.metrics.IncStepFailure("inventory")
			s.warnStep(s.withOrder(ctx, order.ID), order.StoreID, "decrement inventory", err)
		}
	}
}

func (s *service) dispatch(ctx context.Context, order *models.Order, location *models.StoreLocation) *models.Delivery {
	delivery, err := s.dispatcher.Dispatch(ctx, order, location)
	if err != nil {
		s.metrics.IncStepFailure("dispatch")
		s.warnStep(s.withOrder(ctx, order.ID), order.StoreID, "dispatch delivery", err)
		return nil
	}
	return delivery
}

func (s *service) withCustomer(ctx context.Context, customerID uuid.UUID) context.Context {
	if s.logg == nil {
		return ctx
	}
	return s.logg.WithCustomerID(ctx, customerID.String())
}

func (s *service) withOrder(ctx context.Context, orderID uuid.UUID) context.Context {
	if s.logg == nil {
		return ctx
	}
	return s.logg.WithOrderID(ctx, orderID.String())
}

func (s *service) warnStep(ctx context.Context, storeID uuid.UUID, step string, err error) {
	if s.logg == nil {
		return
	}
	logCtx := s.logg.WithStoreID(ctx, storeID.String())
	logCtx = s.logg.WithField(logCtx, "step", step)
	logCtx = s.logg.WithField(logCtx, "error", err.Error())
	s.logg.Warn(logCtx, "checkout step failed")
}

func decimalFromInt(value int) decimal.Decimal {
	return decimal.NewFromInt(int64(value))
}
