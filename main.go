package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kendall-kelly/artisan-portal-api/config"
	"github.com/kendall-kelly/artisan-portal-api/seed"
	"github.com/kendall-kelly/artisan-portal-api/server"
	"github.com/kendall-kelly/artisan-portal-api/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log.Println("Starting Artisan Portal API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	ctx := context.Background()
	if cfg.SeedDatabase {
		if err := seed.Run(ctx, db); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	files, err := newFileStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize file storage: %v", err)
	}
	templates, err := services.NewLocalFileStore(cfg.TemplateDir)
	if err != nil {
		log.Fatalf("Failed to open template directory: %v", err)
	}

	app := server.New(cfg, db, files, templates)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server is running on http://localhost%s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shut down: %v", err)
	}
	app.Close()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("Server stopped")
}

// newFileStore picks where uploaded documents and invoices are kept
func newFileStore(ctx context.Context, cfg *config.Config) (services.FileStore, error) {
	if cfg.StorageDriver == config.StorageS3 {
		log.Printf("Storing uploads in S3 bucket %s (%s)", cfg.AWSS3Bucket, cfg.AWSRegion)
		return services.NewS3FileStore(ctx, services.S3Options{
			Region:          cfg.AWSRegion,
			Bucket:          cfg.AWSS3Bucket,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
	}
	log.Printf("Storing uploads in %s", cfg.UploadDir)
	return services.NewLocalFileStore(cfg.UploadDir)
}
