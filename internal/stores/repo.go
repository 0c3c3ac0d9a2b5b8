package stores

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickpour/quickpour-backend/pkg/db/models"
)

// Repository handles store and store-location persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to store operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a store by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindByIDWithLocations loads a store and preloads its active locations.
func (r *Repository) FindByIDWithLocations(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).
		Preload("Locations", "is_active = ? AND deleted_at IS NULL", true).
		Where("id = ?", id).
		First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindLocationByID loads a single store location.
func (r *Repository) FindLocationByID(ctx context.Context, id uuid.UUID) (*models.StoreLocation, error) {
	var location models.StoreLocation
	if err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&location).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

// FindPrimaryLocation returns the store's primary active location, if any.
func (r *Repository) FindPrimaryLocation(ctx context.Context, storeID uuid.UUID) (*models.StoreLocation, error) {
	var location models.StoreLocation
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND is_primary = ? AND is_active = ? AND deleted_at IS NULL", storeID, true, true).
		First(&location).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}

// ListLocations returns all active locations for a store.
func (r *Repository) ListLocations(ctx context.Context, storeID uuid.UUID) ([]models.StoreLocation, error) {
	var locations []models.StoreLocation
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND is_active = ? AND deleted_at IS NULL", storeID, true).
		Order("is_primary DESC").
		Order("name ASC").
		Find(&locations).Error
	return locations, err
}
