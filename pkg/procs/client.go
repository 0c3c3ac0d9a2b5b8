// Package procs wraps the server-side procedures the marketplace relies on.
// The procedure bodies live in the database; this client only shapes the
// calls and decodes results.
package procs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbtypes "github.com/quickpour/quickpour-backend/pkg/db/types"
	"github.com/quickpour/quickpour-backend/pkg/enums"
	"github.com/quickpour/quickpour-backend/pkg/types"
)

// Client issues procedure calls over the shared GORM connection.
type Client struct {
	db *gorm.DB
}

// NewClient builds a procedure client bound to the provided DB.
func NewClient(db *gorm.DB) (*Client, error) {
	if db == nil {
		return nil, errors.New("db connection required")
	}
	return &Client{db: db}, nil
}

// DriverLocation is one row returned by get_driver_locations.
type DriverLocation struct {
	ID  uuid.UUID `json:"id"`
	Lat float64   `json:"lat"`
	Lng float64   `json:"lng"`
}

// GetFulfillmentLocation asks the ranking procedure which location should
// fulfill the given products for a store. A null result means the procedure
// had no candidate; that is not an error.
func (c *Client) GetFulfillmentLocation(ctx context.Context, storeID uuid.UUID, productIDs []uuid.UUID, lat, lng *float64, fulfillment enums.FulfillmentType) (*uuid.UUID, error) {
	var result sql.NullString
	err := c.db.WithContext(ctx).
		Raw(
			"SELECT get_fulfillment_location(?, ?::uuid[], ?, ?, ?)",
			storeID,
			dbtypes.UUIDArray(productIDs),
			lat,
			lng,
			string(fulfillment),
		).
		Scan(&result).Error
	if err != nil {
		return nil, fmt.Errorf("get_fulfillment_location: %w", err)
	}
	if !result.Valid || result.String == "" {
		return nil, nil
	}
	id, err := uuid.Parse(result.String)
	if err != nil {
		return nil, fmt.Errorf("get_fulfillment_location returned %q: %w", result.String, err)
	}
	return &id, nil
}

// DecrementInventory applies an atomic stock decrement for the inventory row.
// Constraint enforcement (never below zero) belongs to the procedure.
func (c *Client) DecrementInventory(ctx context.Context, inventoryID uuid.UUID, quantity int) error {
	err := c.db.WithContext(ctx).
		Exec("SELECT decrement_inventory(?, ?)", inventoryID, quantity).Error
	if err != nil {
		return fmt.Errorf("decrement_inventory: %w", err)
	}
	return nil
}

// AutoAssignDelivery requests driver matching for a freshly created delivery.
func (c *Client) AutoAssignDelivery(ctx context.Context, deliveryID uuid.UUID) error {
	err := c.db.WithContext(ctx).
		Exec("SELECT auto_assign_delivery(?)", deliveryID).Error
	if err != nil {
		return fmt.Errorf("auto_assign_delivery: %w", err)
	}
	return nil
}

// CreateNotification forwards an in-app notification to the backend procedure.
func (c *Client) CreateNotification(ctx context.Context, userID uuid.UUID, notifType enums.NotificationType, title, body string, actionURL *string, data types.JSONMap) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("create_notification payload: %w", err)
	}
	err = c.db.WithContext(ctx).
		Exec(
			"SELECT create_notification(?, ?, ?, ?, ?, ?::jsonb)",
			userID,
			string(notifType),
			title,
			body,
			actionURL,
			string(payload),
		).Error
	if err != nil {
		return fmt.Errorf("create_notification: %w", err)
	}
	return nil
}

// GetDriverLocations returns last-known coordinates for the given drivers.
func (c *Client) GetDriverLocations(ctx context.Context, driverIDs []uuid.UUID) ([]DriverLocation, error) {
	if len(driverIDs) == 0 {
		return nil, nil
	}
	var raw sql.NullString
	err := c.db.WithContext(ctx).
		Raw("SELECT get_driver_locations(?::uuid[])", dbtypes.UUIDArray(driverIDs)).
		Scan(&raw).Error
	if err != nil {
		return nil, fmt.Errorf("get_driver_locations: %w", err)
	}
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var locations []DriverLocation
	if err := json.Unmarshal([]byte(raw.String), &locations); err != nil {
		return nil, fmt.Errorf("get_driver_locations decode: %w", err)
	}
	return locations, nil
}
