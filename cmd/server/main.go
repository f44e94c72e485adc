package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/naperu/heraldo/internal/api"
	"github.com/naperu/heraldo/internal/dedup"
	"github.com/naperu/heraldo/internal/reconciler"
	"github.com/naperu/heraldo/internal/repository"
	"github.com/naperu/heraldo/internal/service"
	"github.com/naperu/heraldo/internal/storage"
	"github.com/naperu/heraldo/internal/ws"
	"github.com/naperu/heraldo/pkg/cache"
	"github.com/naperu/heraldo/pkg/config"
	"github.com/naperu/heraldo/pkg/database"
)

func main() {
	// Load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed admin user
	if err := database.SeedAdmin(db, cfg); err != nil {
		log.Printf("Warning: Failed to seed admin: %v", err)
	}

	// Initialize storage (MinIO)
	var store *storage.Storage
	if cfg.MinioEndpoint != "" {
		store, err = storage.New(storage.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			PublicURL: cfg.MinioPublicURL,
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize storage: %v (media features will be disabled)", err)
		} else {
			log.Printf("✅ MinIO storage initialized at %s", cfg.MinioEndpoint)
		}
	}

	// Initialize Redis cache
	var redisCache *cache.Cache
	if cfg.RedisURL != "" {
		redisCache, err = cache.New(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: Failed to initialize Redis cache: %v (caching disabled)", err)
		} else {
			log.Printf("✅ Redis cache initialized")
		}
	}

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Initialize services
	services := service.NewServices(repos, hub, store, redisCache)

	// Start the notification reconciler
	queue := dedup.NewQueue(repos.Notification)
	worker := reconciler.New(repos.MergeHistory, queue, time.Duration(cfg.ReconcileIntervalSeconds)*time.Second)
	worker.Start()

	// Initialize API server
	server := api.NewServer(cfg, services, hub, store)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")

		worker.Stop()

		if err := server.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	log.Printf("🚀 Heraldo server starting on port %s", cfg.Port)
	if err := server.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
