package main

import (
	"context"
	"os"

	"github.com/dfaust/spotify-playlist-importer/internal/repositories"
	"github.com/dfaust/spotify-playlist-importer/internal/services"
	"github.com/dfaust/spotify-playlist-importer/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		logger.Fatalf("failed to open database: %v", err)
	}
	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
	if err := repositories.Migrate(db); err != nil {
		logger.Fatalf("failed to migrate database: %v", err)
	}

	sessions := repositories.NewSessionRepository(db)
	mappings := repositories.NewMappingRepository(db)

	var catalog services.Catalog
	if session, err := sessions.Load(); err == nil && !session.Expired() {
		catalog = services.NewSpotifyService(session, config.Importer.RateLimit)
	}

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Catalog:  catalog,
		Sessions: sessions,
		Mappings: mappings,
		DB:       db,
		Logger:   logger,
	})

	app := &cli.Command{
		Name:     "spotify-playlist-importer",
		Usage:    "Match local playlists against Spotify and import them",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
