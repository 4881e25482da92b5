// Package main is the entry point for the LoopSign control server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/loopsign/loopsign-go/internal/api"
	"github.com/loopsign/loopsign-go/internal/config"
	"github.com/loopsign/loopsign-go/internal/database"
	"github.com/loopsign/loopsign-go/internal/database/models"
	"github.com/loopsign/loopsign-go/internal/database/repositories"
	"github.com/loopsign/loopsign-go/internal/events"
	"github.com/loopsign/loopsign-go/internal/ha"
	"github.com/loopsign/loopsign-go/internal/playlist"
	"github.com/loopsign/loopsign-go/internal/status"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Print startup banner
	printBanner(cfg)

	// Open the media library cache
	db, err := database.Open(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Auto-migrate database schema
	log.Println("Running database migrations...")
	if err := db.AutoMigrate(&models.MediaFile{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migrations complete")

	mediaRepo := repositories.NewMediaRepository(db.DB)

	// Home Assistant media source
	haClient := ha.NewClient(cfg.HAURL, cfg.HAToken, cfg.HASensor, cfg.HAMediaPrefix)

	// Seed the playlist from the sensor; fall back to the cached library
	// when Home Assistant is unreachable at boot.
	cursor := playlist.NewCursor(nil)
	if files, err := haClient.FetchFileList(context.Background()); err == nil {
		cursor.Replace(files)
		if err := mediaRepo.ReplaceAll(context.Background(), files); err != nil {
			log.Printf("Warning: failed to sync media library: %v", err)
		}
		log.Printf("Playlist loaded from sensor: %d files", len(files))
	} else {
		log.Printf("Warning: sensor unreachable, using cached library: %v", err)
		if files, cacheErr := mediaRepo.Filenames(context.Background()); cacheErr == nil {
			cursor.Replace(files)
			log.Printf("Playlist loaded from cache: %d files", len(files))
		}
	}

	// Authoritative playback status; point it at the first playlist entry
	store := status.NewStore()
	if first, ok := cursor.Current(); ok {
		store.Merge(map[string]interface{}{"currentVideo": first})
	}

	// Event channel to display clients
	hub := events.NewHub()
	go hub.Run()

	// Background playlist refresh
	pollDone := make(chan struct{})
	go pollPlaylist(cfg.PlaylistPollInterval, haClient, cursor, mediaRepo, pollDone)

	// Create router
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin, "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		Debug:            cfg.IsDevelopment(),
	})
	router.Use(corsMiddleware.Handler)

	// Routes
	router.Get("/health", healthCheckHandler)
	router.Get("/ws", hub.ServeWS)
	api.New(store, cursor, hub, haClient, mediaRepo).Routes(router)

	// Static assets for the browser player
	if info, err := os.Stat(cfg.PublicDir); err == nil && info.IsDir() {
		router.Handle("/*", http.FileServer(http.Dir(cfg.PublicDir)))
	}

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		// Media proxy responses stream for the length of a video
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on http://localhost:%s\n", cfg.Port)
		log.Printf("Event channel: ws://localhost:%s/ws\n", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Cleanup services in reverse order
	close(pollDone)
	hub.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// pollPlaylist refreshes the playlist from the sensor on a fixed interval.
// Failures keep the current list; the next tick tries again.
func pollPlaylist(interval time.Duration, client *ha.Client, cursor *playlist.Cursor, repo *repositories.MediaRepository, done <-chan struct{}) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			files, err := client.FetchFileList(ctx)
			if err != nil {
				log.Printf("Playlist poll failed: %v", err)
				cancel()
				continue
			}
			cursor.Replace(files)
			if err := repo.ReplaceAll(ctx, files); err != nil {
				log.Printf("Failed to sync media library: %v", err)
			}
			cancel()
			log.Printf("Playlist refreshed: %d files", len(files))
		}
	}
}

// healthCheckHandler returns the server health status.
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	response := fmt.Sprintf(`{
  "status": "ok",
  "timestamp": "%s",
  "version": "%s"
}`, time.Now().UTC().Format(time.RFC3339), Version)

	_, _ = w.Write([]byte(response))
}

// printBanner prints the startup banner.
func printBanner(cfg *config.Config) {
	fmt.Println("============================================")
	fmt.Println("  LoopSign Server")
	fmt.Printf("  Version: %s\n", Version)
	fmt.Printf("  Build:   %s\n", BuildTime)
	fmt.Printf("  Commit:  %s\n", GitCommit)
	fmt.Println("============================================")
	fmt.Printf("  Environment: %s\n", cfg.Env)
	fmt.Printf("  Port:        %s\n", cfg.Port)
	fmt.Printf("  Database:    %s\n", cfg.DatabaseURL)
	fmt.Printf("  Sensor:      %s\n", cfg.HASensor)
	fmt.Println("============================================")
}
