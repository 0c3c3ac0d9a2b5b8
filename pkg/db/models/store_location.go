package models

import (
	"time"

	"github.com/google/uuid"
)

// StoreLocation is a physical fulfillment site belonging to a store.
// Read-only during checkout; the resolver selects one, never creates one.
type StoreLocation struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID    uuid.UUID  `gorm:"column:store_id;type:uuid;not null"`
	Name       string     `gorm:"column:name;not null"`
	Street     string     `gorm:"column:street;not null"`
	City       string     `gorm:"column:city;not null"`
	State      string     `gorm:"column:state;not null"`
	PostalCode string     `gorm:"column:postal_code;not null"`
	Country    string     `gorm:"column:country;not null;default:'US'"`
	Lat        *float64   `gorm:"column:lat"`
	Lng        *float64   `gorm:"column:lng"`
	Phone      *string    `gorm:"column:phone"`
	IsPrimary  bool       `gorm:"column:is_primary;not null;default:false"`
	IsActive   bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt  *time.Time `gorm:"column:deleted_at"`
}
