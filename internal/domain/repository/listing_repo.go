package repository

import (
	"github.com/yourusername/estate-api/internal/domain/entity"
)

// ListingFilter narrows a listing search. Tri-state booleans use nil for
// "either", matching the client's checkbox semantics.
type ListingFilter struct {
	SearchTerm string
	Type       string // "", "sale" or "rent"; empty means both
	Offer      *bool
	Furnished  *bool
	Parking    *bool
	Sort       string // column: created_at or regular_price
	Order      string // asc or desc
	Limit      int
	Offset     int
}

// ListingRepository defines persistence for property listings.
type ListingRepository interface {
	Create(listing *entity.Listing) error
	GetByID(id uint) (*entity.Listing, error)
	GetByUserID(userID uint) ([]entity.Listing, error)
	Update(listing *entity.Listing) error
	Delete(id uint) error
	Search(filter ListingFilter) ([]entity.Listing, error)
}
