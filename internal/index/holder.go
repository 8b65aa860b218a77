package index

import (
	"sync/atomic"

	"github.com/hana/reelmind/internal/domain"
)

// Holder publishes Index snapshots through a single atomic reference swap.
// Readers copy the reference once at call entry and keep using it for the
// whole query, so an in-flight query is never switched to a newer generation
// mid-way and a slow build never blocks a reader.
type Holder struct {
	current atomic.Pointer[Index]
}

// NewHolder returns an empty Holder; queries fail with ErrNoIndex until the
// first Publish.
func NewHolder() *Holder {
	return &Holder{}
}

// Current returns the latest published snapshot.
func (h *Holder) Current() (*Index, error) {
	idx := h.current.Load()
	if idx == nil {
		return nil, domain.ErrNoIndex
	}
	return idx, nil
}

// Publish swaps in a new snapshot. The previous one stays valid for any
// query that already holds its reference.
func (h *Holder) Publish(idx *Index) {
	h.current.Store(idx)
}
