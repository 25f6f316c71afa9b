package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/estate-api/internal/pkg/errors"
	"github.com/yourusername/estate-api/internal/service"
)

// handleServiceError maps service errors to HTTP status codes and stable
// error_type strings consumed by the frontend.
func handleServiceError(c *gin.Context, err error) {
	log.Printf("[Handler] %s %s: %v", c.Request.Method, c.FullPath(), err)

	switch {
	case errors.Is(err, service.ErrUserAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists with this email!", "error_type": "user_already_exists"})
	case errors.Is(err, service.ErrNoAccountForEmail):
		c.JSON(http.StatusNotFound, gin.H{"error": "No account found with this email!", "error_type": "no_account_for_email"})
	case errors.Is(err, service.ErrInvalidOrExpiredCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code!", "error_type": "invalid_or_expired_code"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wrong credentials!", "error_type": "invalid_credentials"})
	case errors.Is(err, service.ErrGoogleTokenVerificationFailed):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Google sign-in failed", "error_type": "google_token_verification_failed"})
	case errors.Is(err, service.ErrFeatureDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "This sign-in method is not available", "error_type": "feature_disabled"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "error_type": "forbidden"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "error_type": "not_found"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Conflict", "error_type": "conflict"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "error_type": "internal_server_error"})
	}
}

// currentUserID returns the authenticated user's ID set by the auth
// middleware.
func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// parseUintParam parses a numeric path parameter.
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " parameter", "error_type": "validation_error"})
		return 0, false
	}
	return uint(value), true
}
