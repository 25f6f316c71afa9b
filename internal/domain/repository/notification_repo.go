package repository

import (
	"github.com/yourusername/estate-api/internal/domain/entity"
)

// NotificationRepository defines persistence for user notifications.
type NotificationRepository interface {
	Create(notification *entity.Notification) error
	GetByID(id uint) (*entity.Notification, error)
	GetByUserID(userID uint) ([]entity.Notification, error)
	MarkRead(id uint) error
	Delete(id uint) error
}
