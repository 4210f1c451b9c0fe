package media

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStorage implements the Uploader interface using the local
// filesystem. Saved assets are served back by the asset server under
// /api/<subdir>/<filename>, so the returned URL is durable for as long as
// the deployment base stays put.
type LocalStorage struct {
	basePath   string               // absolute path to MEDIA_STORAGE_PATH
	publicBase string               // deployment base URL, e.g. http://host:8080/
	subDirMap  map[AssetType]string // maps AssetType to subdirectory name
}

// NewLocalStorage creates a new local filesystem store
func NewLocalStorage(basePath, publicBase string, subDirs map[AssetType]string) (*LocalStorage, error) {
	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid base storage path '%s': %w", basePath, err)
	}

	if err := os.MkdirAll(absBasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory '%s': %w", absBasePath, err)
	}

	for _, subDir := range subDirs {
		fullPath := filepath.Join(absBasePath, subDir)
		if !strings.HasPrefix(filepath.Clean(fullPath), absBasePath) {
			return nil, fmt.Errorf("invalid subdirectory configuration: '%s' resolves outside base path '%s'", subDir, absBasePath)
		}
		if err := os.MkdirAll(fullPath, 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory '%s': %w", fullPath, err)
		}
	}

	log.Printf("media.store: Initialized LocalStorage at %s", absBasePath)
	return &LocalStorage{
		basePath:   absBasePath,
		publicBase: strings.TrimSuffix(publicBase, "/"),
		subDirMap:  subDirs,
	}, nil
}

// Upload writes the asset under the named folder with a UUID filename and
// returns the public URL it will be served from.
func (ls *LocalStorage) Upload(ctx context.Context, data []byte, folder string) (string, error) {
	targetDir := filepath.Join(ls.basePath, folder)
	if !strings.HasPrefix(filepath.Clean(targetDir), ls.basePath) {
		return "", &UploadError{Reason: fmt.Sprintf("invalid target folder '%s'", folder)}
	}
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", &UploadError{Reason: "failed to create target folder", Err: err}
	}

	assetUUID, err := uuid.NewRandom()
	if err != nil {
		return "", &UploadError{Reason: "failed to generate asset filename", Err: err}
	}
	filename := assetUUID.String() + extensionFor(data)
	fullSavePath := filepath.Join(targetDir, filename)

	if err := os.WriteFile(fullSavePath, data, 0644); err != nil {
		return "", &UploadError{Reason: fmt.Sprintf("failed to write asset to '%s'", fullSavePath), Err: err}
	}

	log.Printf("media.store: Saved asset to %s", fullSavePath)
	return ls.publicBase + path.Join("/api", folder, filename), nil
}

// Remove deletes the asset file behind a URL previously returned by Upload.
// URLs that do not point into this store, and files already gone, are
// ignored.
func (ls *LocalStorage) Remove(ctx context.Context, assetURL string) error {
	parsed, err := url.Parse(assetURL)
	if err != nil {
		return nil
	}

	rel := strings.TrimPrefix(parsed.Path, "/api/")
	if rel == parsed.Path || rel == "" || strings.Contains(rel, "..") {
		return nil
	}

	fullPath := filepath.Join(ls.basePath, filepath.FromSlash(rel))
	if !strings.HasPrefix(filepath.Clean(fullPath), ls.basePath) {
		return nil
	}

	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete asset '%s': %w", rel, err)
	}
	if err == nil {
		log.Printf("media.store: Deleted asset %s", fullPath)
	}
	return nil
}

func extensionFor(data []byte) string {
	if http.DetectContentType(data) == "image/png" {
		return ".png"
	}
	return ".jpg"
}
