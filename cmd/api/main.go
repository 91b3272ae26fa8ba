package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jwebster45206/dayscene/internal/config"
	"github.com/jwebster45206/dayscene/internal/handlers"
	"github.com/jwebster45206/dayscene/internal/logger"
	"github.com/jwebster45206/dayscene/internal/middleware"
	"github.com/jwebster45206/dayscene/pkg/content"
	"github.com/jwebster45206/dayscene/pkg/game"
)

func main() {
	// Optional .env for local runs
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Dayscene API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"content_dir", cfg.ContentDir,
		"save_backend", cfg.SaveBackend,
		"save_format", cfg.SaveFormat)

	loader := content.NewDirLoader(cfg.ContentDir, log)
	loader.Strict = cfg.ContentStrict

	// Fail fast on broken content instead of on the first new game
	c, err := loader.Load()
	if err != nil {
		log.Error("Failed to load content", "error", err)
		os.Exit(1)
	}
	log.Info("Content loaded", "days", c.DayCount(), "scenes", c.SceneCount(), "warnings", len(c.Warnings))

	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	store, err := config.NewSaveStore(storageCtx, cfg, log)
	if err != nil {
		log.Error("Failed to open save store", "error", err)
		os.Exit(1)
	}
	log.Info("Save store ready", "backend", cfg.SaveBackend)

	broadcaster, err := config.NewEventBroadcaster(storageCtx, cfg, log)
	if err != nil {
		log.Error("Failed to start event broadcaster", "error", err)
		os.Exit(1)
	}

	sessions := game.NewSessions(func() (*game.Controller, error) {
		ctrl, err := game.New(loader, store, cfg.SaveFormat, log)
		if err != nil {
			return nil, err
		}
		if broadcaster != nil {
			ctrl.SetPublisher(broadcaster)
		}
		return ctrl, nil
	})

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, sessions, log)
	mux.Handle("/health", healthHandler)

	gameHandler := handlers.NewGameHandler(sessions, log)
	if broadcaster != nil {
		gameHandler.WithEvents(broadcaster)
		log.Info("Event streaming enabled", "redis", cfg.EventsRedisURL)
	}
	mux.Handle("/v1/games", gameHandler)
	mux.Handle("/v1/games/", gameHandler)

	savesHandler := handlers.NewSavesHandler(store, log)
	mux.Handle("/v1/saves", savesHandler)
	mux.Handle("/v1/saves/", savesHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: the events endpoint streams for as long as the client listens
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	// Close storage connection
	if err := store.Close(); err != nil {
		log.Error("Error closing save store", "error", err)
	}
	if broadcaster != nil {
		if err := broadcaster.Close(); err != nil {
			log.Error("Error closing event broadcaster", "error", err)
		}
	}

	log.Info("Server exited")
}
