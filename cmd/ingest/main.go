package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hana/reelmind/internal/catalog"
	"github.com/hana/reelmind/internal/config"
	"github.com/hana/reelmind/internal/logger"
	"github.com/hana/reelmind/internal/scraper"
)

// Populates the catalog from a TMDB-compatible API, deduplicating against
// existing records. The running API server picks the new records up on its
// next refresh.
func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog := logger.New(nil)
	logger.SetDefault(appLog)

	if cfg.Scraper.APIKey == "" {
		appLog.Fatal("Scraper API key is not configured (set TMDB_API_KEY)")
	}

	store, err := catalog.New(&catalog.Config{
		Driver: cfg.Catalog.Driver,
		Path:   cfg.Catalog.Path,
		DSN:    cfg.Catalog.DSN,
	})
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize catalog store")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := scraper.New(&scraper.Config{
		BaseURL:    cfg.Scraper.BaseURL,
		APIKey:     cfg.Scraper.APIKey,
		MovieCount: cfg.Scraper.MovieCount,
		Workers:    cfg.Scraper.Workers,
	}, appLog)

	movies, err := client.FetchPopular(ctx)
	if err != nil {
		appLog.WithError(err).Fatal("Scrape failed")
	}

	snapshot, err := store.AppendMany(ctx, movies)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to append scraped movies")
	}

	appLog.WithFields(logger.Fields{
		"scraped":      len(movies),
		"catalog_size": len(snapshot),
	}).Info("Ingest completed")
}
