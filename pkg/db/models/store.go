package models

import (
	"time"

	"github.com/google/uuid"
)

// Store is a tenant storefront on the marketplace.
type Store struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID     uuid.UUID       `gorm:"column:owner_id;type:uuid;not null"`
	Name        string          `gorm:"column:name;not null"`
	Description *string         `gorm:"column:description"`
	Phone       *string         `gorm:"column:phone"`
	Email       *string         `gorm:"column:email"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true"`
	Locations   []StoreLocation `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
