// Package vectorize turns a corpus of soups into fixed-dimension numeric
// vectors using either a sparse term-weighted model fitted on the corpus or
// an external dense embedding provider.
package vectorize

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hana/reelmind/internal/artifacts"
	"github.com/hana/reelmind/internal/domain"
	"github.com/hana/reelmind/internal/logger"
)

// Strategy names a vectorization strategy.
type Strategy string

const (
	StrategyAuto      Strategy = "auto"
	StrategyTFIDF     Strategy = "tfidf"
	StrategyEmbedding Strategy = "embedding"
)

// Kind tags the representation density of a VectorSet. Downstream math
// (centroid, similarity) branches on this tag instead of sniffing shapes.
type Kind string

const (
	KindSparse Kind = "sparse"
	KindDense  Kind = "dense"
)

// SparseVector maps vocabulary index to weight. Absent indices are zero.
type SparseVector map[int]float64

// VectorSet holds one vector per input document, all of equal dimensionality.
// Exactly one of Sparse or Dense is populated, per Kind. Row i corresponds to
// document i of the input corpus; nothing here may reorder rows.
type VectorSet struct {
	Kind     Kind
	Strategy Strategy
	Dim      int
	Vocab    []string       // sparse only: term at each vocabulary index
	Sparse   []SparseVector // Kind == KindSparse
	Dense    [][]float64    // Kind == KindDense
}

// Len returns the number of vectors.
func (vs *VectorSet) Len() int {
	if vs.Kind == KindDense {
		return len(vs.Dense)
	}
	return len(vs.Sparse)
}

// DenseRow materializes row i as a dense vector. For dense sets the backing
// slice is returned directly; callers must not mutate it.
func (vs *VectorSet) DenseRow(i int) []float64 {
	if vs.Kind == KindDense {
		return vs.Dense[i]
	}
	row := make([]float64, vs.Dim)
	for idx, w := range vs.Sparse[i] {
		row[idx] = w
	}
	return row
}

// Centroid computes the element-wise mean of the given rows as a dense
// vector. Sparse rows are expanded for the mean only.
func (vs *VectorSet) Centroid(rows []int) []float64 {
	centroid := make([]float64, vs.Dim)
	if len(rows) == 0 {
		return centroid
	}
	switch vs.Kind {
	case KindDense:
		for _, i := range rows {
			for j, v := range vs.Dense[i] {
				centroid[j] += v
			}
		}
	case KindSparse:
		for _, i := range rows {
			for idx, w := range vs.Sparse[i] {
				centroid[idx] += w
			}
		}
	}
	n := float64(len(rows))
	for j := range centroid {
		centroid[j] /= n
	}
	return centroid
}

// Config controls strategy selection and the sparse model.
type Config struct {
	Strategy         Strategy
	MaxFeatures      int
	EmbeddingEnabled bool
}

// Vectorizer fits and applies a vectorization strategy over a corpus.
type Vectorizer struct {
	cfg       Config
	provider  EmbeddingProvider
	artifacts artifacts.Store
	log       *logger.Logger
}

// New creates a Vectorizer. provider may be nil when the embedding strategy
// is disabled; store may be nil to skip advisory artifact persistence.
func New(cfg Config, provider EmbeddingProvider, store artifacts.Store, log *logger.Logger) *Vectorizer {
	if log == nil {
		log = logger.Default()
	}
	if cfg.MaxFeatures <= 0 {
		cfg.MaxFeatures = 20000
	}
	return &Vectorizer{cfg: cfg, provider: provider, artifacts: store, log: log}
}

// Resolve maps the requested strategy to a concrete one. Auto picks the
// embedding strategy when enabled by configuration, else tfidf.
func (v *Vectorizer) Resolve(strategy Strategy) Strategy {
	if strategy == "" || strategy == StrategyAuto {
		if v.cfg.EmbeddingEnabled {
			return StrategyEmbedding
		}
		return StrategyTFIDF
	}
	return strategy
}

// Vectorize produces one vector per soup, in input order. The fitted model
// and raw vectors are persisted to the artifact store keyed by strategy name;
// persistence failures are logged and otherwise ignored.
func (v *Vectorizer) Vectorize(ctx context.Context, soups []string, strategy Strategy) (*VectorSet, error) {
	resolved := v.Resolve(strategy)

	var (
		vs  *VectorSet
		err error
	)
	switch resolved {
	case StrategyTFIDF:
		vs, err = fitTFIDF(soups, v.cfg.MaxFeatures)
	case StrategyEmbedding:
		if v.provider == nil {
			return nil, fmt.Errorf("%w: embedding strategy requested but no provider is configured", domain.ErrConfiguration)
		}
		vs, err = v.embedCorpus(ctx, soups)
	default:
		return nil, fmt.Errorf("%w: unknown vectorization strategy %q", domain.ErrConfiguration, resolved)
	}
	if err != nil {
		return nil, err
	}
	vs.Strategy = resolved

	v.persist(ctx, vs)
	return vs, nil
}

func (v *Vectorizer) embedCorpus(ctx context.Context, soups []string) (*VectorSet, error) {
	dense, err := v.provider.EmbedBatch(ctx, soups)
	if err != nil {
		return nil, fmt.Errorf("embedding provider failed: %w", err)
	}
	dim := 0
	if len(dense) > 0 {
		dim = len(dense[0])
	}
	for i, row := range dense {
		if len(row) != dim {
			return nil, fmt.Errorf("embedding dimension mismatch at row %d: got %d, want %d", i, len(row), dim)
		}
	}
	return &VectorSet{Kind: KindDense, Dim: dim, Dense: dense}, nil
}

// fittedModel is the advisory artifact describing a fitted vectorizer.
type fittedModel struct {
	Strategy Strategy  `json:"strategy"`
	Dim      int       `json:"dim"`
	Vocab    []string  `json:"vocab,omitempty"`
	Rows     int       `json:"rows"`
	FittedAt time.Time `json:"fitted_at"`
}

func (v *Vectorizer) persist(ctx context.Context, vs *VectorSet) {
	if v.artifacts == nil {
		return
	}
	model := fittedModel{
		Strategy: vs.Strategy,
		Dim:      vs.Dim,
		Vocab:    vs.Vocab,
		Rows:     vs.Len(),
		FittedAt: time.Now().UTC(),
	}
	if err := v.putJSON(ctx, string(vs.Strategy)+"_model.json", model); err != nil {
		v.log.WithError(err).Warn("Failed to persist fitted vectorizer artifact")
	}
	if err := v.putJSON(ctx, string(vs.Strategy)+"_vectors.json", vs); err != nil {
		v.log.WithError(err).Warn("Failed to persist vector artifact")
	}
}

func (v *Vectorizer) putJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return v.artifacts.Put(ctx, key, data)
}
