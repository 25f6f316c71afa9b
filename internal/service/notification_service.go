package service

import (
	"fmt"

	"github.com/yourusername/estate-api/internal/domain/entity"
	"github.com/yourusername/estate-api/internal/domain/repository"
	apperrors "github.com/yourusername/estate-api/internal/pkg/errors"
)

// NotificationService handles user notifications with ownership checks.
type NotificationService struct {
	notifications repository.NotificationRepository
}

// NewNotificationService creates a new notification service.
func NewNotificationService(notifications repository.NotificationRepository) (*NotificationService, error) {
	if notifications == nil {
		return nil, fmt.Errorf("NotificationRepository is required for NotificationService")
	}
	return &NotificationService{notifications: notifications}, nil
}

// Create adds a notification for the user.
func (s *NotificationService) Create(userID uint, message string) (*entity.Notification, error) {
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", apperrors.ErrValidation)
	}
	notification := &entity.Notification{UserID: userID, Message: message}
	if err := s.notifications.Create(notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return notification, nil
}

// ListForUser returns the user's notifications, newest first.
func (s *NotificationService) ListForUser(userID uint) ([]entity.Notification, error) {
	return s.notifications.GetByUserID(userID)
}

// MarkRead flags a notification as read. Only the owner may mark it.
func (s *NotificationService) MarkRead(userID, notificationID uint) (*entity.Notification, error) {
	notification, err := s.notifications.GetByID(notificationID)
	if err != nil {
		return nil, err
	}
	if notification.UserID != userID {
		return nil, fmt.Errorf("%w: not your notification", apperrors.ErrForbidden)
	}
	if err := s.notifications.MarkRead(notificationID); err != nil {
		return nil, err
	}
	notification.IsRead = true
	return notification, nil
}

// Delete removes a notification. Only the owner may delete it.
func (s *NotificationService) Delete(userID, notificationID uint) error {
	notification, err := s.notifications.GetByID(notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return fmt.Errorf("%w: not your notification", apperrors.ErrForbidden)
	}
	return s.notifications.Delete(notificationID)
}
