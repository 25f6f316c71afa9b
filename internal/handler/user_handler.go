package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/estate-api/internal/pkg/errors"
	"github.com/yourusername/estate-api/internal/service"
	"github.com/yourusername/estate-api/pkg/auth"
)

// UserHandler handles profile requests.
type UserHandler struct {
	userService    *service.UserService
	listingService *service.ListingService
	jwtService     *auth.JWTService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService *service.UserService, listingService *service.ListingService, jwtService *auth.JWTService) *UserHandler {
	return &UserHandler{
		userService:    userService,
		listingService: listingService,
		jwtService:     jwtService,
	}
}

// UpdateUserRequest represents a profile update; all fields optional.
type UpdateUserRequest struct {
	Username string `json:"username" binding:"omitempty,min=3,max=50"`
	Avatar   string `json:"avatar" binding:"omitempty,max=255,url"`
	Password string `json:"password" binding:"omitempty,min=6,max=50"`
}

// GetMe returns the authenticated user.
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "unauthorized"})
		return
	}

	user, err := h.userService.GetByID(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// GetUser returns a public user card for contacting a listing owner.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"avatar":   user.Avatar,
	})
}

// UpdateUser updates the authenticated user's own profile.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "unauthorized"})
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if id != userID {
		handleServiceError(c, apperrors.ErrForbidden)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	user, err := h.userService.UpdateProfile(userID, service.ProfileUpdateInput{
		Username: req.Username,
		Avatar:   req.Avatar,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// DeleteUser removes the authenticated user's own account and ends the
// session.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "unauthorized"})
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if id != userID {
		handleServiceError(c, apperrors.ErrForbidden)
		return
	}

	if err := h.userService.Delete(userID); err != nil {
		handleServiceError(c, err)
		return
	}

	h.jwtService.ClearAccessTokenCookie(c.Writer)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User has been deleted!"})
}

// GetUserListings returns the authenticated user's own listings.
func (h *UserHandler) GetUserListings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "unauthorized"})
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if id != userID {
		handleServiceError(c, apperrors.ErrForbidden)
		return
	}

	listings, err := h.listingService.GetByUserID(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "listings": listings})
}
