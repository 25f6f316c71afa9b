package repository

import (
	"github.com/yourusername/estate-api/internal/domain/entity"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	UpdateProfile(userID uint, updates map[string]interface{}) error
	UpdatePassword(userID uint, newPassword string) error
	Delete(userID uint) error
}
