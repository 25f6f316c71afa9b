package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/estate-api/internal/domain/entity"
	"github.com/yourusername/estate-api/internal/domain/repository"
	apperrors "github.com/yourusername/estate-api/internal/pkg/errors"
)

// MockListingRepository implements repository.ListingRepository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(listing *entity.Listing) error {
	args := m.Called(listing)
	return args.Error(0)
}

func (m *MockListingRepository) GetByID(id uint) (*entity.Listing, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) GetByUserID(userID uint) ([]entity.Listing, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Listing), args.Error(1)
}

func (m *MockListingRepository) Update(listing *entity.Listing) error {
	args := m.Called(listing)
	return args.Error(0)
}

func (m *MockListingRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockListingRepository) Search(filter repository.ListingFilter) ([]entity.Listing, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Listing), args.Error(1)
}

func validListingInput() ListingInput {
	return ListingInput{
		Name:         "Cozy cottage",
		Description:  "Two bedrooms near the lake",
		Address:      "12 Lakeside Dr",
		RegularPrice: 250000,
		Bathrooms:    1,
		Bedrooms:     2,
		Type:         entity.ListingTypeSale,
		ImageURLs:    []string{"https://img.example.com/1.jpg"},
	}
}

func TestListingService_Create_Success(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockRepo.On("Create", mock.AnythingOfType("*entity.Listing")).Return(nil)

	svc, err := NewListingService(mockRepo)
	require.NoError(t, err)

	listing, err := svc.Create(5, validListingInput())

	require.NoError(t, err)
	require.NotNil(t, listing)
	assert.Equal(t, uint(5), listing.UserID)
	mockRepo.AssertExpectations(t)
}

func TestListingService_Create_ValidationErrors(t *testing.T) {
	mockRepo := new(MockListingRepository)
	svc, err := NewListingService(mockRepo)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*ListingInput)
	}{
		{"invalid type", func(in *ListingInput) { in.Type = "lease" }},
		{"no images", func(in *ListingInput) { in.ImageURLs = nil }},
		{"too many images", func(in *ListingInput) {
			in.ImageURLs = make([]string, 7)
		}},
		{"non-positive price", func(in *ListingInput) { in.RegularPrice = 0 }},
		{"discount above regular", func(in *ListingInput) {
			in.Offer = true
			in.DiscountPrice = in.RegularPrice + 1
		}},
		{"zero bedrooms", func(in *ListingInput) { in.Bedrooms = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validListingInput()
			tt.mutate(&input)

			listing, err := svc.Create(5, input)

			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Nil(t, listing)
		})
	}
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestListingService_Update_NotOwner(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockRepo.On("GetByID", uint(10)).Return(&entity.Listing{ID: 10, UserID: 1}, nil)

	svc, err := NewListingService(mockRepo)
	require.NoError(t, err)

	listing, err := svc.Update(2, 10, validListingInput())

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Nil(t, listing)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestListingService_Update_Success(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockRepo.On("GetByID", uint(10)).Return(&entity.Listing{ID: 10, UserID: 2, Name: "Old name"}, nil)
	mockRepo.On("Update", mock.AnythingOfType("*entity.Listing")).Return(nil)

	svc, err := NewListingService(mockRepo)
	require.NoError(t, err)

	input := validListingInput()
	listing, err := svc.Update(2, 10, input)

	require.NoError(t, err)
	assert.Equal(t, input.Name, listing.Name)
	mockRepo.AssertExpectations(t)
}

func TestListingService_Delete_NotOwner(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockRepo.On("GetByID", uint(10)).Return(&entity.Listing{ID: 10, UserID: 1}, nil)

	svc, err := NewListingService(mockRepo)
	require.NoError(t, err)

	err = svc.Delete(2, 10)

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestListingService_Delete_NotFound(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockRepo.On("GetByID", uint(99)).Return(nil, apperrors.ErrNotFound)

	svc, err := NewListingService(mockRepo)
	require.NoError(t, err)

	err = svc.Delete(2, 99)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
