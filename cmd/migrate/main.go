package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/yukmats/visit-hearing/internal/config"
	"github.com/yukmats/visit-hearing/internal/repository/postgres"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	if !cfg.Database.Enabled() {
		log.Fatal().Msg("No database configured")
	}

	sourceURL := os.Getenv("MIGRATIONS_URL")
	if sourceURL == "" {
		sourceURL = "file://migrations"
	}

	log.Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Msg("Running migrations")

	if err := postgres.RunMigrations(cfg.Database.DSN(), sourceURL); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
