package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/estate-api/internal/domain/entity"
	"github.com/yourusername/estate-api/internal/domain/repository"
	apperrors "github.com/yourusername/estate-api/internal/pkg/errors"
)

// ListingRepo implements repository.ListingRepository.
type ListingRepo struct {
	db *gorm.DB
}

// NewListingRepo creates a new listing repository.
func NewListingRepo(db *gorm.DB) *ListingRepo {
	return &ListingRepo{db: db}
}

// Create persists a new listing.
func (r *ListingRepo) Create(listing *entity.Listing) error {
	return r.db.Create(listing).Error
}

// GetByID returns a listing by ID.
func (r *ListingRepo) GetByID(id uint) (*entity.Listing, error) {
	var listing entity.Listing
	err := r.db.First(&listing, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &listing, nil
}

// GetByUserID returns all listings owned by the given user, newest first.
func (r *ListingRepo) GetByUserID(userID uint) ([]entity.Listing, error) {
	var listings []entity.Listing
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&listings).Error
	return listings, err
}

// Update saves all fields of an existing listing.
func (r *ListingRepo) Update(listing *entity.Listing) error {
	return r.db.Save(listing).Error
}

// Delete removes a listing.
func (r *ListingRepo) Delete(id uint) error {
	result := r.db.Delete(&entity.Listing{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Search returns listings matching the filter, paginated.
func (r *ListingRepo) Search(filter repository.ListingFilter) ([]entity.Listing, error) {
	query := r.db.Model(&entity.Listing{})

	if filter.SearchTerm != "" {
		pattern := "%" + filter.SearchTerm + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if filter.Type == entity.ListingTypeSale || filter.Type == entity.ListingTypeRent {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Offer != nil {
		query = query.Where("offer = ?", *filter.Offer)
	}
	if filter.Furnished != nil {
		query = query.Where("furnished = ?", *filter.Furnished)
	}
	if filter.Parking != nil {
		query = query.Where("parking = ?", *filter.Parking)
	}

	sort := filter.Sort
	switch sort {
	case "regular_price", "created_at":
	default:
		sort = "created_at"
	}
	order := filter.Order
	if order != "asc" {
		order = "desc"
	}
	query = query.Order(sort + " " + order)

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 9
	}
	query = query.Limit(limit)
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var listings []entity.Listing
	err := query.Find(&listings).Error
	return listings, err
}
