package media

import (
	"bytes"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

const (
	DefaultMaxSize     = 800
	DefaultJPEGQuality = 75
)

// Normalize downscales an uploaded image so its longer edge is at most
// maxSize and re-encodes it. Opaque images become JPEG at the given
// quality; images with transparency stay PNG. Returns the encoded bytes
// and the file extension (with leading dot).
func Normalize(data []byte, maxSize, quality int) ([]byte, string, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode uploaded image: %w", err)
	}

	// Fit only downscales; images already within bounds pass through
	resized := imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)

	var buf bytes.Buffer
	if isOpaque(resized) {
		if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, "", fmt.Errorf("failed to encode normalized image: %w", err)
		}
		return buf.Bytes(), ".jpg", nil
	}

	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return nil, "", fmt.Errorf("failed to encode normalized image: %w", err)
	}
	return buf.Bytes(), ".png", nil
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return true
}
