package index

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hana/reelmind/internal/domain"
	"github.com/hana/reelmind/internal/vectorize"
)

func TestHolderEmpty(t *testing.T) {
	h := NewHolder()
	if _, err := h.Current(); !errors.Is(err, domain.ErrNoIndex) {
		t.Errorf("Current on empty holder = %v, want ErrNoIndex", err)
	}
}

func TestHolderPublish(t *testing.T) {
	h := NewHolder()
	idx := &Index{BuiltAt: time.Now()}
	h.Publish(idx)

	got, err := h.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if got != idx {
		t.Error("Current did not return the published snapshot")
	}
}

func TestRefreshPublishes(t *testing.T) {
	store := &fakeStore{movies: fixtureMovies()}
	holder := NewHolder()
	r := NewRefresher(newTestBuilder(store), holder, vectorize.StrategyTFIDF, nil)

	ran, err := r.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !ran {
		t.Fatal("Refresh reported skipped")
	}

	idx, err := holder.Current()
	if err != nil {
		t.Fatalf("Current after refresh: %v", err)
	}
	if len(idx.Records) != 3 {
		t.Errorf("published index has %d records, want 3", len(idx.Records))
	}
}

func TestRefreshFailureKeepsPreviousIndex(t *testing.T) {
	store := &fakeStore{movies: fixtureMovies()}
	holder := NewHolder()
	r := NewRefresher(newTestBuilder(store), holder, vectorize.StrategyTFIDF, nil)

	if _, err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("initial Refresh: %v", err)
	}
	prev, _ := holder.Current()

	store.err = errors.New("catalog unavailable")
	ran, err := r.Refresh(context.Background())
	if !ran {
		t.Fatal("failed Refresh reported skipped")
	}
	if err == nil {
		t.Fatal("Refresh succeeded with failing store")
	}

	cur, cerr := holder.Current()
	if cerr != nil {
		t.Fatalf("Current after failed refresh: %v", cerr)
	}
	if cur != prev {
		t.Error("failed refresh replaced the published index")
	}
}

// slowStore blocks LoadAll until released so a build can be held in flight.
type slowStore struct {
	fakeStore
	release chan struct{}
	loading chan struct{}
	once    sync.Once
}

func (s *slowStore) LoadAll(ctx context.Context) ([]domain.Movie, error) {
	s.once.Do(func() { close(s.loading) })
	<-s.release
	return s.fakeStore.LoadAll(ctx)
}

func TestRefreshSingleFlight(t *testing.T) {
	store := &slowStore{
		fakeStore: fakeStore{movies: fixtureMovies()},
		release:   make(chan struct{}),
		loading:   make(chan struct{}),
	}
	holder := NewHolder()
	vec := vectorize.New(vectorize.Config{Strategy: vectorize.StrategyTFIDF}, nil, nil, nil)
	r := NewRefresher(NewBuilder(store, vec, nil, nil), holder, vectorize.StrategyTFIDF, nil)

	errCh := make(chan error, 1)
	go func() {
		_, err := r.Refresh(context.Background())
		errCh <- err
	}()

	<-store.loading
	if !r.Building() {
		t.Error("Building() false while a build holds the store")
	}

	// A second refresh while the first is in flight must be a no-op.
	ran, err := r.Refresh(context.Background())
	if err != nil {
		t.Fatalf("concurrent Refresh: %v", err)
	}
	if ran {
		t.Error("concurrent Refresh was not skipped")
	}

	close(store.release)
	if err := <-errCh; err != nil {
		t.Fatalf("first Refresh: %v", err)
	}
	if r.Building() {
		t.Error("Building() true after build finished")
	}
}

func TestQueriesSeeCoherentSnapshotsDuringRefresh(t *testing.T) {
	store := &fakeStore{movies: fixtureMovies()}
	holder := NewHolder()
	r := NewRefresher(newTestBuilder(store), holder, vectorize.StrategyTFIDF, nil)

	if _, err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("initial Refresh: %v", err)
	}

	var wg sync.WaitGroup
	var refreshWG sync.WaitGroup
	var failures atomic.Int64
	stopRefresh := make(chan struct{})

	refreshWG.Add(1)
	go func() {
		defer refreshWG.Done()
		for {
			select {
			case <-stopRefresh:
				return
			default:
				r.Refresh(context.Background())
			}
		}
	}()

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			idx, err := holder.Current()
			if err != nil {
				failures.Add(1)
				return
			}
			// All views of one snapshot must agree on row count.
			n := len(idx.Records)
			if idx.Vectors.Len() != n || idx.Sim.Size != n {
				failures.Add(1)
				return
			}
			for row := 0; row < n; row++ {
				if len(idx.Sim.Rows[row]) != n {
					failures.Add(1)
					return
				}
			}
		}()
	}

	wg.Wait()
	close(stopRefresh)
	refreshWG.Wait()

	if n := failures.Load(); n > 0 {
		t.Errorf("%d queries observed an incoherent snapshot", n)
	}
}

func TestRunPeriodicRefresh(t *testing.T) {
	store := &fakeStore{movies: fixtureMovies()}
	holder := NewHolder()
	r := NewRefresher(newTestBuilder(store), holder, vectorize.StrategyTFIDF, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx, 10*time.Millisecond)

	deadline := time.After(2 * time.Second)
	for {
		if _, err := holder.Current(); err == nil {
			break
		}
		select {
		case <-deadline:
			t.Fatal("periodic refresh never published an index")
		case <-time.After(5 * time.Millisecond):
		}
	}

	r.Stop()
}

func TestRunDisabledInterval(t *testing.T) {
	store := &fakeStore{movies: fixtureMovies()}
	holder := NewHolder()
	r := NewRefresher(newTestBuilder(store), holder, vectorize.StrategyTFIDF, nil)

	done := make(chan struct{})
	go func() {
		r.Run(context.Background(), 0)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run with zero interval did not return")
	}
	r.Stop()
}

func TestStopWithoutRun(t *testing.T) {
	store := &fakeStore{movies: fixtureMovies()}
	r := NewRefresher(newTestBuilder(store), NewHolder(), vectorize.StrategyTFIDF, nil)

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked with no Run started")
	}
}
