// Package catalog persists the movie catalog. Backends share one contract:
// appends deduplicate by id when present, else by lower-cased title, and each
// write is all-or-nothing so a failed append never corrupts the store.
package catalog

import (
	"context"
	"fmt"

	"github.com/hana/reelmind/internal/domain"
)

// Store supplies catalog snapshots and accepts appends. Implementations
// serialize their own concurrent writers.
type Store interface {
	// LoadAll returns the full catalog in stored order.
	LoadAll(ctx context.Context) ([]domain.Movie, error)

	// Append adds one movie and returns the deduplicated snapshot.
	Append(ctx context.Context, movie domain.Movie) ([]domain.Movie, error)

	// AppendMany adds movies in a single durable write and returns the
	// deduplicated snapshot.
	AppendMany(ctx context.Context, movies []domain.Movie) ([]domain.Movie, error)

	// SetPoster updates the poster reference of the first movie matching
	// title case-insensitively. Returns false when no movie matched.
	SetPoster(ctx context.Context, title, posterURL string) (bool, error)
}

// Config selects a catalog backend.
type Config struct {
	Driver          string // csv, sqlite, postgres
	Path            string // csv file or sqlite database path
	DSN             string // postgres only
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime int64 // seconds; 0 keeps the driver default
}

// New creates a Store for the configured driver, defaulting to csv.
func New(cfg *Config) (Store, error) {
	switch cfg.Driver {
	case "", "csv":
		return NewCSVStore(cfg.Path)
	case "sqlite", "postgres":
		db, err := openDB(cfg)
		if err != nil {
			return nil, err
		}
		return NewDBStore(db), nil
	default:
		return nil, fmt.Errorf("unknown catalog driver %q", cfg.Driver)
	}
}
