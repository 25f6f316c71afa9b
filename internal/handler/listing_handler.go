package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/estate-api/internal/domain/repository"
	"github.com/yourusername/estate-api/internal/service"
)

// ListingHandler handles property listing requests.
type ListingHandler struct {
	listingService *service.ListingService
}

// NewListingHandler creates a new listing handler.
func NewListingHandler(listingService *service.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// ListingRequest represents a create/update listing payload.
type ListingRequest struct {
	Name          string   `json:"name" binding:"required,min=3,max=100"`
	Description   string   `json:"description" binding:"required"`
	Address       string   `json:"address" binding:"required,max=255"`
	RegularPrice  int64    `json:"regular_price" binding:"required,min=1"`
	DiscountPrice int64    `json:"discount_price" binding:"omitempty,min=0"`
	Bathrooms     int      `json:"bathrooms" binding:"required,min=1,max=20"`
	Bedrooms      int      `json:"bedrooms" binding:"required,min=1,max=20"`
	Furnished     bool     `json:"furnished"`
	Parking       bool     `json:"parking"`
	Type          string   `json:"type" binding:"required,oneof=sale rent"`
	Offer         bool     `json:"offer"`
	ImageURLs     []string `json:"image_urls" binding:"required,min=1,max=6,dive,url"`
}

func (r *ListingRequest) toInput() service.ListingInput {
	return service.ListingInput{
		Name:          r.Name,
		Description:   r.Description,
		Address:       r.Address,
		RegularPrice:  r.RegularPrice,
		DiscountPrice: r.DiscountPrice,
		Bathrooms:     r.Bathrooms,
		Bedrooms:      r.Bedrooms,
		Furnished:     r.Furnished,
		Parking:       r.Parking,
		Type:          r.Type,
		Offer:         r.Offer,
		ImageURLs:     r.ImageURLs,
	}
}

// Create adds a new listing owned by the authenticated user.
func (h *ListingHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "unauthorized"})
		return
	}

	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	listing, err := h.listingService.Create(userID, req.toInput())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "listing": listing})
}

// Update replaces a listing's fields; owner only.
func (h *ListingHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "unauthorized"})
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	listing, err := h.listingService.Update(userID, id, req.toInput())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "listing": listing})
}

// Delete removes a listing; owner only.
func (h *ListingHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "unauthorized"})
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.listingService.Delete(userID, id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Listing has been deleted!"})
}

// Get returns one listing; public.
func (h *ListingHandler) Get(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	listing, err := h.listingService.GetByID(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "listing": listing})
}

// Search returns listings matching the query parameters; public.
// Tri-state filters accept "true"/"false" and treat anything else (including
// absence and the client's "all") as "either".
func (h *ListingHandler) Search(c *gin.Context) {
	filter := repository.ListingFilter{
		SearchTerm: c.Query("searchTerm"),
		Type:       c.Query("type"),
		Offer:      parseTriState(c.Query("offer")),
		Furnished:  parseTriState(c.Query("furnished")),
		Parking:    parseTriState(c.Query("parking")),
		Sort:       c.DefaultQuery("sort", "created_at"),
		Order:      c.DefaultQuery("order", "desc"),
	}

	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "9")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("startIndex", "0")); err == nil {
		filter.Offset = offset
	}

	listings, err := h.listingService.Search(filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "listings": listings})
}

func parseTriState(value string) *bool {
	switch value {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	default:
		return nil
	}
}
