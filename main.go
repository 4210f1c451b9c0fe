package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/mrk-foods/cardsysbackend/config"
	"github.com/mrk-foods/cardsysbackend/database"
	"github.com/mrk-foods/cardsysbackend/handlers"
	"github.com/mrk-foods/cardsysbackend/media"
	"github.com/mrk-foods/cardsysbackend/publish"
	"github.com/mrk-foods/cardsysbackend/realtime"
	"github.com/mrk-foods/cardsysbackend/repository"
	"github.com/mrk-foods/cardsysbackend/services"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.PhotosPath, cfg.LogosPath, filepath.Dir(cfg.DatabasePath)}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}

	uploader, err := buildUploader(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize upload provider '%s': %v", cfg.UploadProvider, err)
	}
	log.Printf("Using upload provider: %s", cfg.UploadProvider)
	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Image max size (longest side): %dpx, JPEG quality: %d", cfg.ImageMaxSize, cfg.ImageJPEGQuality)

	employeeRepo := repository.NewEmployeeRepository(db)
	editor := services.NewEditor(employeeRepo, uploader,
		filepath.Base(cfg.PhotosPath), filepath.Base(cfg.LogosPath),
		cfg.ImageMaxSize, cfg.ImageJPEGQuality)

	hub := realtime.NewHub(employeeRepo)
	go hub.Run()
	defer hub.Close()

	publisher := publish.NewPublisher(cfg.GitHub)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	authHandler := handlers.NewAuthHandler(cfg)
	employeeHandler := &handlers.EmployeeHandler{Repo: employeeRepo, Editor: editor, Cfg: cfg}
	cardHandler := &handlers.CardHandler{Repo: employeeRepo, Cfg: cfg}
	dashboardHandler := &handlers.DashboardHandler{Repo: employeeRepo, Cfg: cfg}
	publishHandler := &handlers.PublishHandler{Publisher: publisher}
	requireAuth := handlers.AuthMiddleware(cfg)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/publish", publishHandler.Publish)
		r.Get("/ws", hub.ServeWS)

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", employeeHandler.ListEmployees)
			r.With(requireAuth).Post("/", employeeHandler.CreateEmployee)
			r.Route("/{employee_id}", func(r chi.Router) {
				r.Get("/", employeeHandler.GetEmployee)
				r.With(requireAuth).Put("/", employeeHandler.UpdateEmployee)
				r.With(requireAuth).Delete("/", employeeHandler.DeleteEmployee)
				r.Get("/vcard", employeeHandler.GetVcard)
				r.Get("/qr", employeeHandler.GetQR)
			})
		})

		if cfg.UploadProvider == "local" {
			photosSubDir := filepath.Base(cfg.PhotosPath)
			r.Get(fmt.Sprintf("/%s/*", photosSubDir), handlers.AssetServer(cfg.MediaStoragePath, photosSubDir))
			log.Printf("Registered photo server at /api/%s/*", photosSubDir)

			logosSubDir := filepath.Base(cfg.LogosPath)
			r.Get(fmt.Sprintf("/%s/*", logosSubDir), handlers.AssetServer(cfg.MediaStoragePath, logosSubDir))
			log.Printf("Registered logo server at /api/%s/*", logosSubDir)
		}
	})

	r.Get("/card.html", cardHandler.ServeCard)
	r.With(requireAuth).Get("/dashboard.html", dashboardHandler.ServeDashboard)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	fmt.Printf("Server starting on http://localhost:%s\n", port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}

// buildUploader selects the asset-hosting backend from configuration.
func buildUploader(cfg config.Config) (media.Uploader, error) {
	switch cfg.UploadProvider {
	case "cloudinary":
		return media.NewCloudinaryUploader(cfg.Cloudinary), nil
	case "minio":
		return media.NewMinioUploader(cfg.Minio)
	case "inline":
		return media.InlineUploader{}, nil
	case "local", "":
		subDirs := map[media.AssetType]string{
			media.AssetTypePhoto: filepath.Base(cfg.PhotosPath),
			media.AssetTypeLogo:  filepath.Base(cfg.LogosPath),
		}
		return media.NewLocalStorage(cfg.MediaStoragePath, cfg.PublicBaseURL, subDirs)
	default:
		return nil, fmt.Errorf("unknown upload provider '%s'", cfg.UploadProvider)
	}
}
