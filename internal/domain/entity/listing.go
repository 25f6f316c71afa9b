package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Listing types. A listing is either for sale or for rent.
const (
	ListingTypeSale = "sale"
	ListingTypeRent = "rent"
)

// StringList is stored as a jsonb column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
}

// Listing is a property advertised by a user.
type Listing struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Name          string     `gorm:"size:100;not null" json:"name"`
	Description   string     `gorm:"type:text;not null" json:"description"`
	Address       string     `gorm:"size:255;not null" json:"address"`
	RegularPrice  int64      `gorm:"not null" json:"regular_price"`
	DiscountPrice int64      `gorm:"not null;default:0" json:"discount_price"`
	Bathrooms     int        `gorm:"not null;default:1" json:"bathrooms"`
	Bedrooms      int        `gorm:"not null;default:1" json:"bedrooms"`
	Furnished     bool       `gorm:"not null;default:false" json:"furnished"`
	Parking       bool       `gorm:"not null;default:false" json:"parking"`
	Type          string     `gorm:"size:10;not null;index" json:"type"` // sale or rent
	Offer         bool       `gorm:"not null;default:false;index" json:"offer"`
	ImageURLs     StringList `gorm:"type:jsonb;not null;default:'[]'" json:"image_urls"`
	UserID        uint       `gorm:"not null;index" json:"user_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Listing) TableName() string {
	return "listings"
}

// IsValidListingType reports whether t is one of the supported listing types.
func IsValidListingType(t string) bool {
	return t == ListingTypeSale || t == ListingTypeRent
}
