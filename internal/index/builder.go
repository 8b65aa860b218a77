// Package index builds immutable recommendation snapshots and owns their
// publication and periodic refresh.
package index

import (
	"context"
	"time"

	"github.com/hana/reelmind/internal/artifacts"
	"github.com/hana/reelmind/internal/catalog"
	"github.com/hana/reelmind/internal/domain"
	"github.com/hana/reelmind/internal/logger"
	"github.com/hana/reelmind/internal/normalize"
	"github.com/hana/reelmind/internal/similarity"
	"github.com/hana/reelmind/internal/vectorize"
)

// Index is one self-consistent snapshot. Row i of Records, Vectors, and Sim
// refer to the same movie; the builder is the only place allowed to order
// them. An Index is never mutated after Build returns.
type Index struct {
	Records []domain.Movie
	Vectors *vectorize.VectorSet
	Sim     *similarity.Matrix
	BuiltAt time.Time
}

// Builder assembles an Index from the current catalog snapshot.
type Builder struct {
	store      catalog.Store
	vectorizer *vectorize.Vectorizer
	artifacts  artifacts.Store
	log        *logger.Logger
}

// NewBuilder creates a Builder. The artifact store may be nil to skip the
// advisory similarity cache.
func NewBuilder(store catalog.Store, vectorizer *vectorize.Vectorizer, arts artifacts.Store, log *logger.Logger) *Builder {
	if log == nil {
		log = logger.Default()
	}
	return &Builder{store: store, vectorizer: vectorizer, artifacts: arts, log: log}
}

// Build runs the full pipeline: load catalog, dedupe, soup, vectorize,
// similarity. Any step failing discards the whole build; no partial index is
// ever returned.
func (b *Builder) Build(ctx context.Context, strategy vectorize.Strategy) (*Index, error) {
	start := time.Now()

	movies, err := b.store.LoadAll(ctx)
	if err != nil {
		return nil, &domain.BuildError{Step: "load catalog", Err: err}
	}
	movies = domain.Dedupe(movies)

	soups := make([]string, len(movies))
	for i := range movies {
		soups[i] = normalize.BuildSoup(&movies[i], nil)
	}

	vectors, err := b.vectorizer.Vectorize(ctx, soups, strategy)
	if err != nil {
		return nil, &domain.BuildError{Step: "vectorize", Err: err}
	}

	sim := similarity.Compute(vectors)
	if err := similarity.Save(ctx, b.artifacts, sim); err != nil {
		// Advisory cache only; the build stays valid.
		b.log.WithError(err).Warn("Failed to cache similarity matrix")
	}

	idx := &Index{
		Records: movies,
		Vectors: vectors,
		Sim:     sim,
		BuiltAt: time.Now().UTC(),
	}

	b.log.WithFields(logger.Fields{
		logger.FieldStrategy: string(vectors.Strategy),
		logger.FieldCount:    len(movies),
		logger.FieldDuration: time.Since(start).Milliseconds(),
	}).Info("Index build completed")

	return idx, nil
}
