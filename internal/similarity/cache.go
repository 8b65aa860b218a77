package similarity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hana/reelmind/internal/artifacts"
	"github.com/hana/reelmind/internal/vectorize"
)

// CacheKey names the cached matrix artifact for a strategy.
func CacheKey(strategy vectorize.Strategy) string {
	return fmt.Sprintf("%s_sim.json", strategy)
}

// Save writes the matrix to the artifact store. The cache is advisory: a
// failed save is reported but a cold system recomputes from vectors.
func Save(ctx context.Context, store artifacts.Store, m *Matrix) error {
	if store == nil {
		return nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode similarity matrix: %w", err)
	}
	return store.Put(ctx, CacheKey(m.Strategy), data)
}

// Load returns a previously cached matrix, or (nil, false, nil) when none is
// stored under the strategy. Corrupt cache content is treated as missing.
func Load(ctx context.Context, store artifacts.Store, strategy vectorize.Strategy) (*Matrix, bool, error) {
	if store == nil {
		return nil, false, nil
	}
	data, err := store.Get(ctx, CacheKey(strategy))
	if err != nil {
		if errors.Is(err, artifacts.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var m Matrix
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, false, nil
	}
	if m.Size != len(m.Rows) {
		return nil, false, nil
	}
	return &m, true, nil
}
