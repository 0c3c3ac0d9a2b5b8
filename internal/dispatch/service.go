package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickpour/quickpour-backend/pkg/db/models"
	"github.com/quickpour/quickpour-backend/pkg/enums"
	"github.com/quickpour/quickpour-backend/pkg/logger"
	"github.com/quickpour/quickpour-backend/pkg/outbox"
	"github.com/quickpour/quickpour-backend/pkg/outbox/payloads"
	"github.com/quickpour/quickpour-backend/pkg/types"
)

const (
	estimatedPickupOffset   = 30 * time.Minute
	estimatedDeliveryOffset = 60 * time.Minute
)

type assignCaller interface {
	AutoAssignDelivery(ctx context.Context, deliveryID uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service resolves a delivery provider for a freshly created order and
// persists the dispatch record. Orders with no usable provider simply get no
// delivery; that is an outcome, not an error.
type Service struct {
	tx     txRunner
	repo   Repository
	procs  assignCaller
	outbox outboxPublisher
	logg   *logger.Logger
	now    func() time.Time
}

// NewService builds the dispatch service.
func NewService(tx txRunner, repo Repository, procs assignCaller, publisher outboxPublisher, logg *logger.Logger) (*Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("delivery repository required")
	}
	if procs == nil {
		return nil, fmt.Errorf("proc caller required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &Service{
		tx:     tx,
		repo:   repo,
		procs:  procs,
		outbox: publisher,
		logg:   logg,
		now:    time.Now,
	}, nil
}

// Dispatch selects a provider and creates the delivery for the order. A nil
// result with nil error means no active company could take the order.
func (s *Service) Dispatch(ctx context.Context, order *models.Order, pickup *models.StoreLocation) (*models.Delivery, error) {
	if order == nil {
		return nil, fmt.Errorf("order required")
	}

	company, err := s.selectCompany(ctx, order.StoreID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		s.emitUnassigned(ctx, order)
		return nil, nil
	}

	now := s.now()
	delivery := &models.Delivery{
		OrderID:               order.ID,
		DeliveryCompanyID:     company.ID,
		Status:                enums.DeliveryStatusPending,
		DeliveryFee:           order.DeliveryFee,
		PickupAddress:         pickupAddressFromLocation(pickup),
		DropoffAddress:        order.DeliveryAddress,
		RecipientName:         recipientName(order),
		CustomerNotes:         order.CustomerNotes,
		EstimatedPickupTime:   now.Add(estimatedPickupOffset),
		EstimatedDeliveryTime: now.Add(estimatedDeliveryOffset),
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.CreateDelivery(ctx, delivery); err != nil {
			return err
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventDeliveryCreated,
			AggregateType: enums.AggregateDelivery,
			AggregateID:   delivery.ID,
			Data: payloads.DeliveryCreatedEvent{
				DeliveryID:        delivery.ID,
				OrderID:           order.ID,
				DeliveryCompanyID: company.ID,
				Status:            delivery.Status,
			},
			Version: 1,
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	// Auto-assignment is best effort; an unassigned delivery is picked up by
	// the company's own dispatch board.
	if err := s.procs.AutoAssignDelivery(ctx, delivery.ID); err != nil && s.logg != nil {
		logCtx := s.logg.WithOrderID(ctx, order.ID.String())
		logCtx = s.logg.WithField(logCtx, "delivery_id", delivery.ID.String())
		logCtx = s.logg.WithField(logCtx, "error", err.Error())
		s.logg.Warn(logCtx, "auto assign delivery failed")
	}

	return delivery, nil
}

func (s *Service) selectCompany(ctx context.Context, storeID uuid.UUID) (*models.DeliveryCompany, error) {
	company, err := s.repo.FindPreferredActiveCompany(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if company != nil {
		return company, nil
	}
	return s.repo.FindAnyActiveCompany(ctx)
}

func (s *Service) emitUnassigned(ctx context.Context, order *models.Order) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		event := outbox.DomainEvent{
			EventType:     enums.EventDeliveryUnassigned,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Data: payloads.DeliveryUnassignedEvent{
				OrderID: order.ID,
				StoreID: order.StoreID,
				Reason:  "no active delivery company",
			},
			Version: 1,
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil && s.logg != nil {
		logCtx := s.logg.WithOrderID(ctx, order.ID.String())
		logCtx = s.logg.WithField(logCtx, "error", err.Error())
		s.logg.Warn(logCtx, "emit delivery unassigned event failed")
	}
}

func pickupAddressFromLocation(location *models.StoreLocation) *types.Address {
	if location == nil {
		return nil
	}
	return &types.Address{
		Name:       location.Name,
		Phone:      deref(location.Phone),
		Street:     location.Street,
		City:       location.City,
		State:      location.State,
		PostalCode: location.PostalCode,
		Country:    location.Country,
		Lat:        location.Lat,
		Lng:        location.Lng,
	}
}

func recipientName(order *models.Order) string {
	if order.DeliveryAddress == nil {
		return ""
	}
	return order.DeliveryAddress.Name
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
