package models

import (
	"time"

	"github.com/google/uuid"
)

// StoreDeliveryPreference ranks delivery companies per store. Dispatch walks
// the list ascending by priority and takes the first active company.
type StoreDeliveryPreference struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID           uuid.UUID        `gorm:"column:store_id;type:uuid;not null;index:ux_store_delivery_prefs,unique,composite:store_company"`
	DeliveryCompanyID uuid.UUID        `gorm:"column:delivery_company_id;type:uuid;not null;index:ux_store_delivery_prefs,unique,composite:store_company"`
	Priority          int              `gorm:"column:priority;not null"`
	DeliveryCompany   *DeliveryCompany `gorm:"foreignKey:DeliveryCompanyID"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
