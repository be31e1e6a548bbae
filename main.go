package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"sweetshop/internal/config"
	"sweetshop/internal/db"
	"sweetshop/internal/logger"
	"sweetshop/internal/repository"
	"sweetshop/internal/router"
)

func main() {
	cfg := config.LoadConfig()

	log := logger.InitLogger()
	log.Info().Msg("Starting sweet shop service")

	var users repository.UserRepository
	var sweets repository.SweetRepository

	if cfg.DBUrl != "" {
		database := db.InitDB(cfg.DBUrl)
		defer database.Close()

		db.RunMigrations(database)

		users = repository.NewMySQLUserRepository(database)
		sweets = repository.NewMySQLSweetRepository(database)
	} else {
		log.Warn().Msg("DB_URL not set, using in-memory repositories")
		users = repository.NewMemoryUserRepository()
		sweets = repository.NewMemorySweetRepository()
	}

	r := router.SetupRouter(cfg, log, users, sweets)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info().Msgf("Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Info().Msg("Shutdown signal received...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Server stopped")
}
