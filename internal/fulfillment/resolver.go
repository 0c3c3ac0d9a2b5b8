package fulfillment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickpour/quickpour-backend/pkg/db/models"
	"github.com/quickpour/quickpour-backend/pkg/enums"
	"github.com/quickpour/quickpour-backend/pkg/logger"
)

type locationRepository interface {
	FindLocationByID(ctx context.Context, id uuid.UUID) (*models.StoreLocation, error)
	FindPrimaryLocation(ctx context.Context, storeID uuid.UUID) (*models.StoreLocation, error)
}

type locationProcCaller interface {
	GetFulfillmentLocation(ctx context.Context, storeID uuid.UUID, productIDs []uuid.UUID, lat, lng *float64, fulfillment enums.FulfillmentType) (*uuid.UUID, error)
}

// Request carries the inputs needed to pick a fulfillment site for one
// checkout group.
type Request struct {
	StoreID    uuid.UUID
	LocationID *uuid.UUID
	ProductIDs []uuid.UUID
	Lat        *float64
	Lng        *float64
}

// Resolver picks the fulfillment location for an order. Resolution walks a
// fixed ladder: explicit location, routing procedure, primary location, none.
// Each rung gets a single attempt; a failed rung falls through to the next.
type Resolver struct {
	repo  locationRepository
	procs locationProcCaller
	logg  *logger.Logger
}

// NewResolver builds the resolver.
func NewResolver(repo locationRepository, procs locationProcCaller, logg *logger.Logger) (*Resolver, error) {
	if repo == nil {
		return nil, fmt.Errorf("location repository required")
	}
	if procs == nil {
		return nil, fmt.Errorf("proc caller required")
	}
	return &Resolver{repo: repo, procs: procs, logg: logg}, nil
}

// Resolve returns the chosen location or nil when no site qualifies. A nil
// location is not an error; the order is created without a pickup address.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*models.StoreLocation, error) {
	if req.StoreID == uuid.Nil {
		return nil, fmt.Errorf("store id required")
	}

	if req.LocationID != nil && *req.LocationID != uuid.Nil {
		location, err := r.repo.FindLocationByID(ctx, *req.LocationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return location, nil
	}

	if id := r.resolveViaProc(ctx, req); id != nil {
		location, err := r.repo.FindLocationByID(ctx, *id)
		if err == nil {
			return location, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.warn(ctx, req.StoreID, "load routed fulfillment location", err)
		}
	}

	primary, err := r.repo.FindPrimaryLocation(ctx, req.StoreID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return primary, nil
}

func (r *Resolver) resolveViaProc(ctx context.Context, req Request) *uuid.UUID {
	id, err := r.procs.GetFulfillmentLocation(ctx, req.StoreID, req.ProductIDs, req.Lat, req.Lng, enums.FulfillmentTypeDelivery)
	if err != nil {
		r.warn(ctx, req.StoreID, "get_fulfillment_location", err)
		return nil
	}
	return id
}

func (r *Resolver) warn(ctx context.Context, storeID uuid.UUID, step string, err error) {
	if r.logg == nil {
		return
	}
	logCtx := r.logg.WithStoreID(ctx, storeID.String())
	logCtx = r.logg.WithField(logCtx, "step", step)
	logCtx = r.logg.WithField(logCtx, "error", err.Error())
	r.logg.Warn(logCtx, "fulfillment resolution step failed")
}
