package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/estate-api/internal/service"
)

// UploadHandler handles listing image uploads.
type UploadHandler struct {
	uploadService *service.UploadService
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// UploadImage accepts a multipart image and forwards it to the image
// host, returning the hosted URL.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "unauthorized"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required", "error_type": "validation_error"})
		return
	}
	if fileHeader.Size > h.uploadService.MaxSizeBytes() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image is too large", "error_type": "validation_error"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image", "error_type": "validation_error"})
		return
	}
	defer file.Close()

	imageURL, err := h.uploadService.Upload(c.Request.Context(), file, fileHeader.Filename)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "image_url": imageURL})
}
