package catalog

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/hana/reelmind/internal/domain"
)

func newTestStore(t *testing.T) *CSVStore {
	t.Helper()
	store, err := NewCSVStore(filepath.Join(t.TempDir(), "movies.csv"))
	if err != nil {
		t.Fatalf("NewCSVStore: %v", err)
	}
	return store
}

func TestCSVStoreEmptyFileIsEmptyCatalog(t *testing.T) {
	store := newTestStore(t)
	movies, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(movies) != 0 {
		t.Errorf("got %d movies from missing file, want 0", len(movies))
	}
}

func TestCSVStoreAppendRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := domain.Movie{
		ID:          "42",
		Title:       "Alpha",
		Genres:      "Action|Drama",
		Cast:        "Jane Doe|John Roe",
		Director:    "Ava Smith",
		Description: "A hero saves the city.",
		Rating:      7.5,
		Popularity:  120.3,
	}
	snapshot, err := store.Append(ctx, in)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if len(snapshot) != 1 {
		t.Fatalf("snapshot size = %d, want 1", len(snapshot))
	}

	// A fresh load must see the durable record with all fields intact.
	movies, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(movies) != 1 {
		t.Fatalf("got %d movies after reload, want 1", len(movies))
	}
	got := movies[0]
	if got.ID != in.ID || got.Title != in.Title || got.Genres != in.Genres ||
		got.Cast != in.Cast || got.Director != in.Director ||
		got.Description != in.Description {
		t.Errorf("reloaded movie = %+v, want %+v", got, in)
	}
	if got.Rating != in.Rating || got.Popularity != in.Popularity {
		t.Errorf("numeric fields = (%v, %v), want (%v, %v)",
			got.Rating, got.Popularity, in.Rating, in.Popularity)
	}
}

func TestCSVStoreAppendDeduplicatesByTitle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Append(ctx, domain.Movie{Title: "Alpha"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	snapshot, err := store.Append(ctx, domain.Movie{Title: "ALPHA", Genres: "Drama"})
	if err != nil {
		t.Fatalf("Append duplicate: %v", err)
	}
	if len(snapshot) != 1 {
		t.Errorf("duplicate title grew the catalog to %d records", len(snapshot))
	}
	// First occurrence wins.
	if snapshot[0].Title != "Alpha" || snapshot[0].Genres != "" {
		t.Errorf("duplicate append replaced the original record: %+v", snapshot[0])
	}
}

func TestCSVStoreAppendDeduplicatesByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Append(ctx, domain.Movie{ID: "7", Title: "Alpha"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	snapshot, err := store.Append(ctx, domain.Movie{ID: "7", Title: "Renamed"})
	if err != nil {
		t.Fatalf("Append duplicate id: %v", err)
	}
	if len(snapshot) != 1 {
		t.Errorf("duplicate id grew the catalog to %d records", len(snapshot))
	}
}

func TestCSVStoreAppendNewTitleGrowsByOne(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Append(ctx, domain.Movie{Title: "Alpha"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	snapshot, err := store.Append(ctx, domain.Movie{Title: "Beta"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if len(snapshot) != 2 {
		t.Errorf("snapshot size = %d, want 2", len(snapshot))
	}

	movies, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(movies) != 2 {
		t.Errorf("reload size = %d, want 2", len(movies))
	}
}

func TestCSVStoreAppendMany(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	snapshot, err := store.AppendMany(ctx, []domain.Movie{
		{Title: "Alpha"},
		{Title: "Beta"},
		{Title: "alpha"}, // duplicate within the batch
	})
	if err != nil {
		t.Fatalf("AppendMany: %v", err)
	}
	if len(snapshot) != 2 {
		t.Errorf("snapshot size = %d, want 2", len(snapshot))
	}
}

func TestCSVStoreSetPoster(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Append(ctx, domain.Movie{Title: "Alpha"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	ok, err := store.SetPoster(ctx, "alpha", "https://img.example/alpha.jpg")
	if err != nil {
		t.Fatalf("SetPoster: %v", err)
	}
	if !ok {
		t.Fatal("SetPoster did not match existing title")
	}

	movies, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if movies[0].PosterPath != "https://img.example/alpha.jpg" {
		t.Errorf("poster = %q after update", movies[0].PosterPath)
	}

	ok, err = store.SetPoster(ctx, "missing", "x")
	if err != nil {
		t.Fatalf("SetPoster missing: %v", err)
	}
	if ok {
		t.Error("SetPoster matched a title that does not exist")
	}
}

func TestCSVStoreSkipsEmptyTitles(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	snapshot, err := store.AppendMany(ctx, []domain.Movie{
		{Title: "Alpha"},
		{Title: "", Genres: "Drama"},
	})
	if err != nil {
		t.Fatalf("AppendMany: %v", err)
	}
	_ = snapshot

	movies, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(movies) != 1 {
		t.Errorf("got %d movies, want 1 (empty title dropped on reload)", len(movies))
	}
}

func TestCSVStoreConcurrentAppends(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	titles := []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon"}
	var wg sync.WaitGroup
	for _, title := range titles {
		wg.Add(1)
		go func(title string) {
			defer wg.Done()
			if _, err := store.Append(ctx, domain.Movie{Title: title}); err != nil {
				t.Errorf("Append(%q): %v", title, err)
			}
		}(title)
	}
	wg.Wait()

	movies, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(movies) != len(titles) {
		t.Errorf("got %d movies after concurrent appends, want %d", len(movies), len(titles))
	}
}

func TestCSVStoreCanceledContext(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.LoadAll(ctx); err == nil {
		t.Error("LoadAll with canceled context succeeded")
	}
	if _, err := store.Append(ctx, domain.Movie{Title: "Alpha"}); err == nil {
		t.Error("Append with canceled context succeeded")
	}
}
