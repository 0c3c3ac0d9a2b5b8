package notifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/quickpour/quickpour-backend/pkg/db/models"
	"github.com/quickpour/quickpour-backend/pkg/enums"
	"github.com/quickpour/quickpour-backend/pkg/types"
)

// NotificationDTO is the API representation of an in-app notification.
type NotificationDTO struct {
	ID        uuid.UUID              `json:"id"`
	UserID    uuid.UUID              `json:"user_id"`
	Type      enums.NotificationType `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	ActionURL *string                `json:"action_url,omitempty"`
	Data      *types.JSONMap         `json:"data,omitempty"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// FromModel converts a persisted notification into its DTO form.
func FromModel(notification models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        notification.ID,
		UserID:    notification.UserID,
		Type:      notification.Type,
		Title:     notification.Title,
		Message:   notification.Message,
		ActionURL: notification.ActionURL,
		Data:      notification.Data,
		ReadAt:    notification.ReadAt,
		CreatedAt: notification.CreatedAt,
	}
}
