// Package artifacts persists advisory build artifacts: cached similarity
// matrices and fitted vectorizer state. Loss or corruption of an artifact
// only costs a recompute, never correctness.
package artifacts

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotExist is returned by Get when no artifact is stored under the key.
var ErrNotExist = errors.New("artifact does not exist")

// Store is the interface for artifact persistence backends.
type Store interface {
	// Put writes an artifact, replacing any previous content under key.
	Put(ctx context.Context, key string, data []byte) error

	// Get reads an artifact, returning ErrNotExist when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Exists reports whether an artifact is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes an artifact. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Config selects and configures a Store backend.
type Config struct {
	Type      string // local, s3
	Dir       string // local backend root directory
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Region    string
}

// New creates a Store from cfg, defaulting to the local backend.
func New(cfg *Config) (Store, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStore(cfg.Dir)
	case "s3":
		return NewS3Store(cfg)
	default:
		return nil, fmt.Errorf("unknown artifact store type %q", cfg.Type)
	}
}
