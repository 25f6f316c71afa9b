package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/estate-api/internal/domain/entity"
	apperrors "github.com/yourusername/estate-api/internal/pkg/errors"
)

// NotificationRepo implements repository.NotificationRepository.
type NotificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo creates a new notification repository.
func NewNotificationRepo(db *gorm.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Create persists a new notification.
func (r *NotificationRepo) Create(notification *entity.Notification) error {
	return r.db.Create(notification).Error
}

// GetByID returns a notification by ID.
func (r *NotificationRepo) GetByID(id uint) (*entity.Notification, error) {
	var notification entity.Notification
	err := r.db.First(&notification, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &notification, nil
}

// GetByUserID returns all notifications for a user, newest first.
func (r *NotificationRepo) GetByUserID(userID uint) ([]entity.Notification, error) {
	var notifications []entity.Notification
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

// MarkRead flags a notification as read.
func (r *NotificationRepo) MarkRead(id uint) error {
	result := r.db.Model(&entity.Notification{}).Where("id = ?", id).Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete removes a notification.
func (r *NotificationRepo) Delete(id uint) error {
	result := r.db.Delete(&entity.Notification{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
