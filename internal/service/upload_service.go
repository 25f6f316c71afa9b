package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/yourusername/estate-api/internal/config"
	apperrors "github.com/yourusername/estate-api/internal/pkg/errors"
)

// allowed image content types, sniffed from the file header.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// UploadService proxies listing images to the Cloudinary unsigned-upload
// endpoint and returns the hosted URL. Transient upstream failures are
// retried by the HTTP client.
type UploadService struct {
	cfg    config.UploadConfig
	client *retryablehttp.Client
}

// NewUploadService creates a new upload service.
func NewUploadService(cfg config.UploadConfig) (*UploadService, error) {
	if cfg.CloudName == "" || cfg.UploadPreset == "" {
		return nil, fmt.Errorf("cloudinary cloud name and upload preset are required")
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.HTTPClient.Timeout = 30 * time.Second
	client.Logger = nil

	return &UploadService{cfg: cfg, client: client}, nil
}

// MaxSizeBytes returns the configured per-file size cap.
func (s *UploadService) MaxSizeBytes() int64 {
	return int64(s.cfg.MaxSizeMB) << 20
}

// Upload reads the image and forwards it to the image host. Returns the
// hosted URL on success.
func (s *UploadService) Upload(ctx context.Context, file io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(file, s.MaxSizeBytes()+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.MaxSizeBytes() {
		return "", fmt.Errorf("%w: image exceeds %d MB limit", apperrors.ErrValidation, s.cfg.MaxSizeMB)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty upload", apperrors.ErrValidation)
	}

	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		return "", fmt.Errorf("%w: only jpg and png images are allowed", apperrors.ErrValidation)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	_ = writer.WriteField("upload_preset", s.cfg.UploadPreset)
	_ = writer.WriteField("folder", s.cfg.Folder)
	_ = writer.WriteField("public_id", uuid.NewString())
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}

	uploadURL := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", s.cfg.CloudName)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, uploadURL, body.Bytes())
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image host unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		log.Printf("[UploadService] image host status=%d body=%s", resp.StatusCode, string(respBody))
		return "", fmt.Errorf("image host rejected upload with status %d", resp.StatusCode)
	}

	var payload struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to parse image host response: %w", err)
	}
	if payload.SecureURL != "" {
		return payload.SecureURL, nil
	}
	if payload.URL != "" {
		return payload.URL, nil
	}
	return "", fmt.Errorf("image host response missing url")
}
