package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/mrk-foods/cardsysbackend/config"
)

const cloudinaryAPIBase = "https://api.cloudinary.com"

// CloudinaryUploader forwards images to the hosted image CDN via its
// unsigned upload API. The transform string is applied server-side on top of
// the local normalization pass. Unsigned uploads cannot be deleted, so
// Remove is a no-op.
type CloudinaryUploader struct {
	Cfg     config.CloudinaryConfig
	BaseURL string
	Client  *http.Client
}

func NewCloudinaryUploader(cfg config.CloudinaryConfig) *CloudinaryUploader {
	return &CloudinaryUploader{
		Cfg:     cfg,
		BaseURL: cloudinaryAPIBase,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (cu *CloudinaryUploader) Upload(ctx context.Context, data []byte, folder string) (string, error) {
	if cu.Cfg.CloudName == "" || cu.Cfg.UploadPreset == "" {
		return "", &UploadError{Reason: "cloudinary credentials are not configured"}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "upload"+extensionFor(data))
	if err != nil {
		return "", &UploadError{Reason: "failed to build upload form", Err: err}
	}
	if _, err := part.Write(data); err != nil {
		return "", &UploadError{Reason: "failed to build upload form", Err: err}
	}
	_ = writer.WriteField("upload_preset", cu.Cfg.UploadPreset)
	_ = writer.WriteField("folder", folder)
	if cu.Cfg.Transformation != "" {
		_ = writer.WriteField("transformation", cu.Cfg.Transformation)
	}
	if err := writer.Close(); err != nil {
		return "", &UploadError{Reason: "failed to build upload form", Err: err}
	}

	uploadURL := fmt.Sprintf("%s/v1_1/%s/image/upload", cu.BaseURL, cu.Cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &body)
	if err != nil {
		return "", &UploadError{Reason: "failed to build upload request", Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := cu.Client.Do(req)
	if err != nil {
		return "", &UploadError{Reason: "upload request failed", Err: err}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UploadError{Reason: fmt.Sprintf("remote service rejected upload (status %d): %s", resp.StatusCode, truncate(respBody, 200))}
	}

	var result struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &UploadError{Reason: "unreadable upload response", Err: err}
	}

	if result.SecureURL != "" {
		return result.SecureURL, nil
	}
	if result.URL != "" {
		return result.URL, nil
	}
	return "", &UploadError{Reason: "upload response contained no usable URL"}
}

// Remove is a no-op: unsigned uploads carry no deletion credentials.
func (cu *CloudinaryUploader) Remove(ctx context.Context, url string) error {
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
