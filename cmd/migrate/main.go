package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/luxehomes/property-assistant/internal/catalog"
	"github.com/luxehomes/property-assistant/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().
		Str("driver", cfg.Catalog.Driver).
		Str("source", cfg.Catalog.Migrations).
		Msg("Running catalog migrations")

	if err := catalog.RunMigrations(cfg.Catalog.DatabaseURL(), cfg.Catalog.Migrations); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
