package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/quickpour/quickpour-backend/pkg/db/models"
)

// StoreDTO exposes safe tenant data in API responses.
type StoreDTO struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Description *string            `json:"description,omitempty"`
	Phone       *string            `json:"phone,omitempty"`
	Email       *string            `json:"email,omitempty"`
	IsActive    bool               `json:"is_active"`
	Locations   []StoreLocationDTO `json:"locations,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// StoreLocationDTO exposes a fulfillment site.
type StoreLocationDTO struct {
	ID         uuid.UUID `json:"id"`
	StoreID    uuid.UUID `json:"store_id"`
	Name       string    `json:"name"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	Lat        *float64  `json:"lat,omitempty"`
	Lng        *float64  `json:"lng,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	IsPrimary  bool      `json:"is_primary"`
	IsActive   bool      `json:"is_active"`
}

// FromModel maps the persisted store into a DTO.
func FromModel(m *models.Store) *StoreDTO {
	if m == nil {
		return nil
	}
	dto := &StoreDTO{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Phone:       m.Phone,
		Email:       m.Email,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	for i := range m.Locations {
		dto.Locations = append(dto.Locations, LocationFromModel(&m.Locations[i]))
	}
	return dto
}

// LocationFromModel maps the persisted location into a DTO.
func LocationFromModel(m *models.StoreLocation) StoreLocationDTO {
	if m == nil {
		return StoreLocationDTO{}
	}
	return StoreLocationDTO{
		ID:         m.ID,
		StoreID:    m.StoreID,
		Name:       m.Name,
		Street:     m.Street,
		City:       m.City,
		State:      m.State,
		PostalCode: m.PostalCode,
		Country:    m.Country,
		Lat:        m.Lat,
		Lng:        m.Lng,
		Phone:      m.Phone,
		IsPrimary:  m.IsPrimary,
		IsActive:   m.IsActive,
	}
}
