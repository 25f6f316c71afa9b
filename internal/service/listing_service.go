package service

import (
	"fmt"

	"github.com/yourusername/estate-api/internal/domain/entity"
	"github.com/yourusername/estate-api/internal/domain/repository"
	apperrors "github.com/yourusername/estate-api/internal/pkg/errors"
)

// ListingService handles property listing CRUD and search with ownership
// checks.
type ListingService struct {
	listings repository.ListingRepository
}

// ListingInput carries the mutable fields of a listing.
type ListingInput struct {
	Name          string
	Description   string
	Address       string
	RegularPrice  int64
	DiscountPrice int64
	Bathrooms     int
	Bedrooms      int
	Furnished     bool
	Parking       bool
	Type          string
	Offer         bool
	ImageURLs     []string
}

// NewListingService creates a new listing service.
func NewListingService(listings repository.ListingRepository) (*ListingService, error) {
	if listings == nil {
		return nil, fmt.Errorf("ListingRepository is required for ListingService")
	}
	return &ListingService{listings: listings}, nil
}

// Create validates and persists a new listing owned by userID.
func (s *ListingService) Create(userID uint, input ListingInput) (*entity.Listing, error) {
	if err := validateListingInput(input); err != nil {
		return nil, err
	}

	listing := &entity.Listing{
		Name:          input.Name,
		Description:   input.Description,
		Address:       input.Address,
		RegularPrice:  input.RegularPrice,
		DiscountPrice: input.DiscountPrice,
		Bathrooms:     input.Bathrooms,
		Bedrooms:      input.Bedrooms,
		Furnished:     input.Furnished,
		Parking:       input.Parking,
		Type:          input.Type,
		Offer:         input.Offer,
		ImageURLs:     input.ImageURLs,
		UserID:        userID,
	}
	if err := s.listings.Create(listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	return listing, nil
}

// Update replaces the mutable fields of a listing. Only the owner may update.
func (s *ListingService) Update(userID, listingID uint, input ListingInput) (*entity.Listing, error) {
	listing, err := s.listings.GetByID(listingID)
	if err != nil {
		return nil, err
	}
	if listing.UserID != userID {
		return nil, fmt.Errorf("%w: you can only update your own listings", apperrors.ErrForbidden)
	}
	if err := validateListingInput(input); err != nil {
		return nil, err
	}

	listing.Name = input.Name
	listing.Description = input.Description
	listing.Address = input.Address
	listing.RegularPrice = input.RegularPrice
	listing.DiscountPrice = input.DiscountPrice
	listing.Bathrooms = input.Bathrooms
	listing.Bedrooms = input.Bedrooms
	listing.Furnished = input.Furnished
	listing.Parking = input.Parking
	listing.Type = input.Type
	listing.Offer = input.Offer
	listing.ImageURLs = input.ImageURLs

	if err := s.listings.Update(listing); err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}
	return listing, nil
}

// Delete removes a listing. Only the owner may delete.
func (s *ListingService) Delete(userID, listingID uint) error {
	listing, err := s.listings.GetByID(listingID)
	if err != nil {
		return err
	}
	if listing.UserID != userID {
		return fmt.Errorf("%w: you can only delete your own listings", apperrors.ErrForbidden)
	}
	return s.listings.Delete(listingID)
}

// GetByID returns a single listing.
func (s *ListingService) GetByID(listingID uint) (*entity.Listing, error) {
	return s.listings.GetByID(listingID)
}

// GetByUserID returns all listings owned by a user.
func (s *ListingService) GetByUserID(userID uint) ([]entity.Listing, error) {
	return s.listings.GetByUserID(userID)
}

// Search returns listings matching the filter.
func (s *ListingService) Search(filter repository.ListingFilter) ([]entity.Listing, error) {
	return s.listings.Search(filter)
}

func validateListingInput(input ListingInput) error {
	if !entity.IsValidListingType(input.Type) {
		return fmt.Errorf("%w: type must be sale or rent", apperrors.ErrValidation)
	}
	if len(input.ImageURLs) < 1 {
		return fmt.Errorf("%w: at least one image is required", apperrors.ErrValidation)
	}
	if len(input.ImageURLs) > 6 {
		return fmt.Errorf("%w: at most 6 images are allowed", apperrors.ErrValidation)
	}
	if input.RegularPrice <= 0 {
		return fmt.Errorf("%w: regular price must be positive", apperrors.ErrValidation)
	}
	if input.Offer && input.DiscountPrice >= input.RegularPrice {
		return fmt.Errorf("%w: discount price must be below regular price", apperrors.ErrValidation)
	}
	if input.Bedrooms < 1 || input.Bathrooms < 1 {
		return fmt.Errorf("%w: bedrooms and bathrooms must be at least 1", apperrors.ErrValidation)
	}
	return nil
}
