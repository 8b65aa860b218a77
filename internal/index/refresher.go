package index

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hana/reelmind/internal/logger"
	"github.com/hana/reelmind/internal/vectorize"
)

// Refresher rebuilds the index from scratch and publishes the result.
// Builds are serialized: a refresh requested while one is running is a
// no-op, so two builds never race on the same cache artifacts. Queries keep
// reading the prior snapshot for the whole build duration.
type Refresher struct {
	builder  *Builder
	holder   *Holder
	strategy vectorize.Strategy
	log      *logger.Logger

	building atomic.Bool

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewRefresher creates a Refresher publishing into holder.
func NewRefresher(builder *Builder, holder *Holder, strategy vectorize.Strategy, log *logger.Logger) *Refresher {
	if log == nil {
		log = logger.Default()
	}
	return &Refresher{
		builder:  builder,
		holder:   holder,
		strategy: strategy,
		log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Refresh builds a fresh index and publishes it. Returns (false, nil) when a
// build is already in flight. A failed build leaves the published index
// untouched.
func (r *Refresher) Refresh(ctx context.Context) (bool, error) {
	if !r.building.CompareAndSwap(false, true) {
		return false, nil
	}
	defer r.building.Store(false)

	idx, err := r.builder.Build(ctx, r.strategy)
	if err != nil {
		r.log.WithError(err).Error("Index refresh failed, keeping previous index")
		return true, err
	}
	r.holder.Publish(idx)
	return true, nil
}

// Building reports whether a build is currently in flight.
func (r *Refresher) Building() bool {
	return r.building.Load()
}

// Run refreshes on the given interval until Stop is called or ctx is
// cancelled. An interval <= 0 disables periodic refresh and Run returns
// immediately. Intended to be run as a goroutine.
func (r *Refresher) Run(ctx context.Context, interval time.Duration) {
	r.started.Store(true)
	defer close(r.done)
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := r.Refresh(ctx); err != nil {
				// Already logged; keep the loop alive.
				continue
			}
		case <-r.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop terminates the periodic refresh loop and waits for it to exit. Safe
// to call when Run was never started.
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})
	if r.started.Load() {
		<-r.done
	}
}
