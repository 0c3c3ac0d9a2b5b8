package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is the structured address snapshot stored on orders and deliveries.
// Orders keep their own copy so later edits to a store location or customer
// profile never rewrite history.
type Address struct {
	Name       string   `json:"name,omitempty"`
	Email      string   `json:"email,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Street     string   `json:"street"`
	City       string   `json:"city"`
	State      string   `json:"state"`
	PostalCode string   `json:"postal_code"`
	Country    string   `json:"country"`
	Notes      string   `json:"notes,omitempty"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
}

// Value serializes the address snapshot to JSONB.
func (a *Address) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	if strings.TrimSpace(a.Street) == "" {
		return nil, fmt.Errorf("address: missing street")
	}
	if strings.TrimSpace(a.City) == "" {
		return nil, fmt.Errorf("address: missing city")
	}
	copied := *a
	if strings.TrimSpace(copied.Country) == "" {
		copied.Country = "US"
	}
	return json.Marshal(copied)
}

// Scan decodes JSONB into the address snapshot.
func (a *Address) Scan(value interface{}) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, a)
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("types: unsupported scan type %T", value)
	}
}

// HasCoordinates reports whether both latitude and longitude are present.
func (a *Address) HasCoordinates() bool {
	return a != nil && a.Lat != nil && a.Lng != nil
}
