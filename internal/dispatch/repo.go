package dispatch

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickpour/quickpour-backend/pkg/db/models"
)

// Repository handles delivery-company selection and delivery persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindPreferredActiveCompany(ctx context.Context, storeID uuid.UUID) (*models.DeliveryCompany, error)
	FindAnyActiveCompany(ctx context.Context) (*models.DeliveryCompany, error)
	CreateDelivery(ctx context.Context, delivery *models.Delivery) (*models.Delivery, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Delivery, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to dispatch operations.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindPreferredActiveCompany walks the store's delivery preferences ascending
// by priority and returns the first company that is still active. Returns nil
// when no preference resolves.
func (r *repository) FindPreferredActiveCompany(ctx context.Context, storeID uuid.UUID) (*models.DeliveryCompany, error) {
	var prefs []models.StoreDeliveryPreference
	err := r.db.WithContext(ctx).
		Preload("DeliveryCompany").
		Where("store_id = ?", storeID).
		Order("priority ASC").
		Find(&prefs).Error
	if err != nil {
		return nil, err
	}
	for i := range prefs {
		company := prefs[i].DeliveryCompany
		if company != nil && company.IsActive {
			return company, nil
		}
	}
	return nil, nil
}

// FindAnyActiveCompany returns an arbitrary active delivery company, or nil
// when none exist. No ordering is applied.
func (r *repository) FindAnyActiveCompany(ctx context.Context) (*models.DeliveryCompany, error) {
	var company models.DeliveryCompany
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Limit(1).
		First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

func (r *repository) CreateDelivery(ctx context.Context, delivery *models.Delivery) (*models.Delivery, error) {
	if err := r.db.WithContext(ctx).Create(delivery).Error; err != nil {
		return nil, err
	}
	return delivery, nil
}

func (r *repository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Delivery, error) {
	var delivery models.Delivery
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&delivery).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &delivery, nil
}
