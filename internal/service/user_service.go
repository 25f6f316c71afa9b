package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yourusername/estate-api/internal/domain/entity"
	"github.com/yourusername/estate-api/internal/domain/repository"
	apperrors "github.com/yourusername/estate-api/internal/pkg/errors"
)

// UserService handles profile reads and updates.
type UserService struct {
	users repository.UserRepository
}

// ProfileUpdateInput carries optional profile changes; empty fields are left
// untouched.
type ProfileUpdateInput struct {
	Username string
	Avatar   string
	Password string
}

// NewUserService creates a new user service.
func NewUserService(users repository.UserRepository) (*UserService, error) {
	if users == nil {
		return nil, fmt.Errorf("UserRepository is required for UserService")
	}
	return &UserService{users: users}, nil
}

// GetByID returns the user with the given ID.
func (s *UserService) GetByID(id uint) (*entity.User, error) {
	return s.users.GetByID(id)
}

// UpdateProfile applies the non-empty fields of input to the user's profile.
func (s *UserService) UpdateProfile(userID uint, input ProfileUpdateInput) (*entity.User, error) {
	updates := map[string]interface{}{}

	if username := strings.TrimSpace(input.Username); username != "" {
		existing, err := s.users.GetByUsername(username)
		if err == nil && existing.ID != userID {
			return nil, fmt.Errorf("%w: username is taken", ErrUserAlreadyExists)
		}
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		updates["username"] = username
	}
	if avatar := strings.TrimSpace(input.Avatar); avatar != "" {
		updates["avatar"] = avatar
	}

	if len(updates) > 0 {
		if err := s.users.UpdateProfile(userID, updates); err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	if input.Password != "" {
		if err := s.users.UpdatePassword(userID, input.Password); err != nil {
			return nil, fmt.Errorf("failed to update password: %w", err)
		}
	}

	return s.users.GetByID(userID)
}

// Delete removes the user's account.
func (s *UserService) Delete(userID uint) error {
	return s.users.Delete(userID)
}
