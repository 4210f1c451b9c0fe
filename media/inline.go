package media

import (
	"context"
	"encoding/base64"
	"net/http"
)

// InlineUploader embeds the image directly in the record as a base64 data
// URL. No external service is involved, so there is nothing to remove.
// This keeps the earlier local-storage deployment variant working when no
// hosting credentials are configured.
type InlineUploader struct{}

func (InlineUploader) Upload(ctx context.Context, data []byte, folder string) (string, error) {
	if len(data) == 0 {
		return "", &UploadError{Reason: "empty image data"}
	}
	contentType := http.DetectContentType(data)
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func (InlineUploader) Remove(ctx context.Context, url string) error {
	return nil
}
