package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/avelez/photodeck-be/internal/api"
	"github.com/avelez/photodeck-be/internal/auth"
	"github.com/avelez/photodeck-be/internal/config"
	"github.com/avelez/photodeck-be/internal/database"
	"github.com/avelez/photodeck-be/internal/logger"
	"github.com/avelez/photodeck-be/internal/objectstore"
	"github.com/avelez/photodeck-be/internal/services"
	"github.com/avelez/photodeck-be/internal/userstore"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.AppEnv)

	// Set up the user database
	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Database.Backend).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.Database.Backend); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	var userStore userstore.Store
	switch cfg.Database.Backend {
	case "postgres":
		userStore = userstore.NewPostgres(db)
	default:
		userStore = userstore.NewSQLite(db)
	}

	// Set up the object store
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	objectStore, err := objectstore.NewMinio(ctx, cfg.Minio)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Str("endpoint", cfg.Minio.Endpoint).Msg("Failed to initialize object store")
	}

	// Set up services
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TokenTTL())
	userService := services.NewUserService(userStore, tokens)
	imageService := services.NewImageService(objectStore)

	// Set up router
	router := api.NewRouter(db, objectStore, tokens, userService, imageService, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("user_backend", cfg.Database.Backend).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
