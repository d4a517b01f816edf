package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/vtvstream/vtv/internal/auth"
	"github.com/vtvstream/vtv/internal/database"
	"github.com/vtvstream/vtv/internal/geoip"
	"github.com/vtvstream/vtv/internal/metadata"
	"github.com/vtvstream/vtv/internal/player"
	"github.com/vtvstream/vtv/internal/server"
	"github.com/vtvstream/vtv/internal/storage"
)

func main() {
	port := getEnv("PORT", "8080")

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, databaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(databaseURL); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}
	log.Println("database migrations applied")

	maxUploadBytes := getEnvInt64("MAX_UPLOAD_BYTES", 2*1024*1024*1024)

	store, err := storage.New(ctx, storage.Config{
		Endpoint:       getEnv("S3_ENDPOINT", "http://localhost:3900"),
		PublicEndpoint: os.Getenv("S3_PUBLIC_ENDPOINT"),
		Bucket:         getEnv("S3_BUCKET", "vtv"),
		AccessKey:      os.Getenv("S3_ACCESS_KEY"),
		SecretKey:      os.Getenv("S3_SECRET_KEY"),
		Region:         getEnv("S3_REGION", "eu-central-1"),
		MaxUploadBytes: maxUploadBytes,
	})
	if err != nil {
		log.Fatalf("storage initialization failed: %v", err)
	}

	if err := store.EnsureBucket(ctx); err != nil {
		log.Fatalf("storage bucket check failed: %v", err)
	}
	log.Println("storage bucket ready")

	baseURL := getEnv("BASE_URL", "http://localhost:8080")

	if err := store.SetCORS(ctx, []string{baseURL}); err != nil {
		log.Printf("storage CORS configuration failed, browser uploads may not work: %v", err)
	}

	geo, err := geoip.New(os.Getenv("GEOIP_DB_PATH"))
	if err != nil {
		log.Fatalf("geoip initialization failed: %v", err)
	}
	defer geo.Close()

	var webFS fs.FS
	if webDir := os.Getenv("WEB_DIR"); webDir != "" {
		if _, err := os.Stat(webDir); err == nil {
			webFS = os.DirFS(webDir)
			log.Printf("serving frontend from %s", webDir)
		} else {
			log.Printf("WEB_DIR %s not found, SPA serving disabled", webDir)
		}
	}

	var metadataClient *metadata.Client
	if getEnv("METADATA_ENABLED", "false") == "true" {
		model := getEnv("METADATA_MODEL", "mistral-small-latest")
		metadataClient = metadata.NewClient(
			os.Getenv("METADATA_BASE_URL"),
			os.Getenv("METADATA_API_KEY"),
			model,
		)
		log.Printf("metadata lookups enabled (model: %s)", model)
	}

	sessions := player.NewManager(player.DefaultIdleTTL)

	srv := server.New(server.Config{
		DB:               db.Pool,
		Pinger:           db,
		Storage:          store,
		Geo:              geo,
		Metadata:         metadataClient,
		Sessions:         sessions,
		WebFS:            webFS,
		JWTSecret:        jwtSecret,
		BaseURL:          baseURL,
		AdminEmail:       os.Getenv("ADMIN_EMAIL"),
		AdminPIN:         os.Getenv("ADMIN_PIN"),
		MaxUploadBytes:   maxUploadBytes,
		S3PublicEndpoint: os.Getenv("S3_PUBLIC_ENDPOINT"),
	})

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	auth.StartTokenPurgeLoop(workerCtx, db.Pool, 1*time.Hour)
	sessions.StartJanitor(15 * time.Minute)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("vtv listening on :%s", port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-shutdownCh
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown failed: %v", err)
	}
	log.Println("shutdown complete")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
