package stores

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickpour/quickpour-backend/pkg/db/models"
	pkgerrors "github.com/quickpour/quickpour-backend/pkg/errors"
)

type storeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindByIDWithLocations(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindLocationByID(ctx context.Context, id uuid.UUID) (*models.StoreLocation, error)
	FindPrimaryLocation(ctx context.Context, storeID uuid.UUID) (*models.StoreLocation, error)
	ListLocations(ctx context.Context, storeID uuid.UUID) ([]models.StoreLocation, error)
}

// Service exposes store read operations.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*StoreDTO, error)
	GetWithLocations(ctx context.Context, id uuid.UUID) (*StoreDTO, error)
	GetLocation(ctx context.Context, id uuid.UUID) (*StoreLocationDTO, error)
	ListLocations(ctx context.Context, storeID uuid.UUID) ([]StoreLocationDTO, error)
}

type service struct {
	repo storeRepository
}

// NewService builds a store service with the provided repository.
func NewService(repo storeRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*StoreDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return FromModel(store), nil
}

func (s *service) GetWithLocations(ctx context.Context, id uuid.UUID) (*StoreDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	store, err := s.repo.FindByIDWithLocations(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return FromModel(store), nil
}

func (s *service) GetLocation(ctx context.Context, id uuid.UUID) (*StoreLocationDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location id required")
	}
	location, err := s.repo.FindLocationByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
	}
	dto := LocationFromModel(location)
	return &dto, nil
}

func (s *service) ListLocations(ctx context.Context, storeID uuid.UUID) ([]StoreLocationDTO, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	locations, err := s.repo.ListLocations(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list locations")
	}
	result := make([]StoreLocationDTO, 0, len(locations))
	for i := range locations {
		result = append(result, LocationFromModel(&locations[i]))
	}
	return result, nil
}
