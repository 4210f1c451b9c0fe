package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultPhotosSubDir = "card_photos"
	DefaultLogosSubDir  = "card_logos"
)

const (
	defaultImageMaxSize     = 800
	defaultImageJPEGQuality = 75
)

// GitHubConfig holds the source-control contents API settings used by the
// publish bridge. Branch is the only optional field.
type GitHubConfig struct {
	Owner  string
	Repo   string
	Branch string
	Token  string
}

// CloudinaryConfig holds settings for the hosted image upload API.
type CloudinaryConfig struct {
	CloudName      string
	UploadPreset   string
	Transformation string
}

// MinioConfig holds settings for the S3-compatible upload backend.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type Config struct {
	// database path
	DatabasePath string

	// media storage configuration (local upload provider)
	MediaStoragePath string // primary root for uploaded card assets
	PhotosPath       string // full-calculated path for employee photos
	LogosPath        string // full-calculated path for company logo overrides

	// public deployment base, used to build card links and local asset URLs
	PublicBaseURL string

	// image normalization settings
	ImageMaxSize     int // longest edge after downscale
	ImageJPEGQuality int

	// asset upload provider: local, cloudinary, minio or inline
	UploadProvider string

	// shared admin credential
	AdminUsername     string
	AdminPasswordHash string
	JWTSecret         string

	GitHub     GitHubConfig
	Cloudinary CloudinaryConfig
	Minio      MinioConfig
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "employees.db")

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "media_storage"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	photosSubDir := getEnvOrDefault("PHOTOS_SUBDIR", DefaultPhotosSubDir)
	absPhotosPath := filepath.Join(absMediaStorage, photosSubDir)

	logosSubDir := getEnvOrDefault("LOGOS_SUBDIR", DefaultLogosSubDir)
	absLogosPath := filepath.Join(absMediaStorage, logosSubDir)

	adminPassword := getEnvOrDefault("ADMIN_PASSWORD", "admin123")
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return Config{}, fmt.Errorf("failed to hash admin password: %w", err)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "cardsys-dev-secret"
		log.Printf("Warning: JWT_SECRET not set, using insecure development default")
	}

	cfg := Config{
		DatabasePath:      dbPath,
		MediaStoragePath:  absMediaStorage,
		PhotosPath:        absPhotosPath,
		LogosPath:         absLogosPath,
		PublicBaseURL:     getEnvOrDefault("PUBLIC_BASE_URL", "http://localhost:8080/"),
		ImageMaxSize:      getEnvIntOrDefault("IMAGE_MAX_SIZE", defaultImageMaxSize),
		ImageJPEGQuality:  getEnvIntOrDefault("IMAGE_JPEG_QUALITY", defaultImageJPEGQuality),
		UploadProvider:    getEnvOrDefault("UPLOAD_PROVIDER", "local"),
		AdminUsername:     getEnvOrDefault("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: string(passwordHash),
		JWTSecret:         jwtSecret,
		GitHub: GitHubConfig{
			Owner:  os.Getenv("GITHUB_OWNER"),
			Repo:   os.Getenv("GITHUB_REPO"),
			Branch: getEnvOrDefault("GITHUB_BRANCH", "main"),
			Token:  os.Getenv("GITHUB_TOKEN"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName:      os.Getenv("CLOUDINARY_CLOUD_NAME"),
			UploadPreset:   os.Getenv("CLOUDINARY_UPLOAD_PRESET"),
			Transformation: getEnvOrDefault("CLOUDINARY_TRANSFORMATION", "c_limit,w_800,q_75"),
		},
		Minio: MinioConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    getEnvOrDefault("MINIO_BUCKET", "card-assets"),
			UseSSL:    getEnvOrDefault("MINIO_USE_SSL", "false") == "true",
		},
	}

	return cfg, nil
}
