// media/types.go
package media

import (
	"context"
	"fmt"
)

type AssetType string

const (
	AssetTypePhoto AssetType = "photo"
	AssetTypeLogo  AssetType = "logo"
)

// UploadError reports a failed asset upload. Callers treat it as non-fatal:
// a record save continues with the previously stored asset URL.
type UploadError struct {
	Reason string
	Err    error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upload failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("upload failed: %s", e.Reason)
}

func (e *UploadError) Unwrap() error { return e.Err }

// Uploader converts normalized image bytes into a durable URL. Remove is
// best-effort cleanup; a missing asset is not an error and backends that
// cannot delete (unsigned hosted uploads, inline data URLs) return nil.
type Uploader interface {
	Upload(ctx context.Context, data []byte, folder string) (string, error)
	Remove(ctx context.Context, url string) error
}
