package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/olebek/contacts-be/internal/api"
	"github.com/olebek/contacts-be/internal/auth"
	"github.com/olebek/contacts-be/internal/avatar"
	"github.com/olebek/contacts-be/internal/config"
	"github.com/olebek/contacts-be/internal/database"
	"github.com/olebek/contacts-be/internal/email"
	"github.com/olebek/contacts-be/internal/logger"
	"github.com/olebek/contacts-be/internal/monitoring"
	"github.com/olebek/contacts-be/internal/services"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)

	// Ensure the upload temp directory exists
	if err := os.MkdirAll(cfg.TmpDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create upload temp directory")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up the avatar store
	avatars, err := avatar.NewStore(cfg.AvatarDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize avatar store")
	}

	// Set up services
	userService := services.NewUserService(db)
	contactService := services.NewContactService(db)
	mailer := email.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom, cfg.BaseURL)
	tokens := auth.NewTokenManager(cfg.JWTSecret)

	// Set up and run the background sweep of orphaned uploads
	sweeper := monitoring.NewTmpSweeper(cfg.TmpDir, 24*time.Hour)
	if err := sweeper.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start upload sweeper")
	}

	// Set up router
	router := api.NewRouter(cfg, tokens, userService, contactService, mailer, avatars)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
