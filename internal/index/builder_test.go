package index

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/hana/reelmind/internal/domain"
	"github.com/hana/reelmind/internal/vectorize"
)

// fakeStore serves a fixed catalog and can be told to fail.
type fakeStore struct {
	movies []domain.Movie
	err    error
	loads  int
}

func (f *fakeStore) LoadAll(ctx context.Context) ([]domain.Movie, error) {
	f.loads++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Movie, len(f.movies))
	copy(out, f.movies)
	return out, nil
}

func (f *fakeStore) Append(ctx context.Context, m domain.Movie) ([]domain.Movie, error) {
	f.movies = append(f.movies, m)
	return f.movies, nil
}

func (f *fakeStore) AppendMany(ctx context.Context, ms []domain.Movie) ([]domain.Movie, error) {
	f.movies = append(f.movies, ms...)
	return f.movies, nil
}

func (f *fakeStore) SetPoster(ctx context.Context, title, posterURL string) (bool, error) {
	return false, nil
}

func fixtureMovies() []domain.Movie {
	return []domain.Movie{
		{Title: "Alpha", Genres: "Action|Drama", Cast: "Jane Doe", Director: "Ava Smith", Description: "hero saves city"},
		{Title: "Beta", Genres: "Action", Cast: "John Roe", Director: "Ava Smith", Description: "hero saves world"},
		{Title: "Gamma", Genres: "Comedy", Cast: "Someone Else", Director: "Bo Li", Description: "friends laugh"},
	}
}

func newTestBuilder(store *fakeStore) *Builder {
	vec := vectorize.New(vectorize.Config{Strategy: vectorize.StrategyTFIDF}, nil, nil, nil)
	return NewBuilder(store, vec, nil, nil)
}

func TestBuildAlignsRows(t *testing.T) {
	store := &fakeStore{movies: fixtureMovies()}
	idx, err := newTestBuilder(store).Build(context.Background(), vectorize.StrategyTFIDF)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	n := len(idx.Records)
	if n != 3 {
		t.Fatalf("records = %d, want 3", n)
	}
	if idx.Vectors.Len() != n {
		t.Errorf("vector rows = %d, want %d", idx.Vectors.Len(), n)
	}
	if idx.Sim.Size != n {
		t.Errorf("matrix size = %d, want %d", idx.Sim.Size, n)
	}
	if idx.BuiltAt.IsZero() {
		t.Error("BuiltAt not set")
	}
}

func TestBuildDeduplicatesCatalog(t *testing.T) {
	movies := fixtureMovies()
	movies = append(movies, domain.Movie{Title: "ALPHA", Genres: "Action"})
	store := &fakeStore{movies: movies}

	idx, err := newTestBuilder(store).Build(context.Background(), vectorize.StrategyTFIDF)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(idx.Records) != 3 {
		t.Errorf("records = %d after dedupe, want 3", len(idx.Records))
	}
}

func TestBuildReflectsSimilarContent(t *testing.T) {
	store := &fakeStore{movies: fixtureMovies()}
	idx, err := newTestBuilder(store).Build(context.Background(), vectorize.StrategyTFIDF)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Alpha and Beta share genre, director, and description terms; Gamma
	// shares nothing with Alpha.
	simAB := idx.Sim.Rows[0][1]
	simAG := idx.Sim.Rows[0][2]
	if simAB <= simAG {
		t.Errorf("sim(Alpha,Beta)=%v not above sim(Alpha,Gamma)=%v", simAB, simAG)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	store := &fakeStore{movies: fixtureMovies()}
	b := newTestBuilder(store)

	first, err := b.Build(context.Background(), vectorize.StrategyTFIDF)
	if err != nil {
		t.Fatalf("first Build: %v", err)
	}
	second, err := b.Build(context.Background(), vectorize.StrategyTFIDF)
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}

	if first.Sim.Size != second.Sim.Size {
		t.Fatalf("sizes differ: %d vs %d", first.Sim.Size, second.Sim.Size)
	}
	for i := range first.Sim.Rows {
		for j := range first.Sim.Rows[i] {
			if math.Abs(first.Sim.Rows[i][j]-second.Sim.Rows[i][j]) > 1e-9 {
				t.Errorf("rebuild changed sim(%d,%d): %v vs %v",
					i, j, first.Sim.Rows[i][j], second.Sim.Rows[i][j])
			}
		}
	}
}

func TestBuildLoadFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("disk gone")}
	_, err := newTestBuilder(store).Build(context.Background(), vectorize.StrategyTFIDF)
	if err == nil {
		t.Fatal("Build succeeded with failing store")
	}
	var be *domain.BuildError
	if !errors.As(err, &be) {
		t.Fatalf("err = %T, want *domain.BuildError", err)
	}
	if be.Step != "load catalog" {
		t.Errorf("step = %q, want \"load catalog\"", be.Step)
	}
}

func TestBuildVectorizeFailure(t *testing.T) {
	store := &fakeStore{movies: fixtureMovies()}
	vec := vectorize.New(vectorize.Config{}, nil, nil, nil)
	b := NewBuilder(store, vec, nil, nil)

	_, err := b.Build(context.Background(), vectorize.StrategyEmbedding)
	if err == nil {
		t.Fatal("Build succeeded without embedding provider")
	}
	var be *domain.BuildError
	if !errors.As(err, &be) {
		t.Fatalf("err = %T, want *domain.BuildError", err)
	}
	if be.Step != "vectorize" {
		t.Errorf("step = %q, want \"vectorize\"", be.Step)
	}
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("err chain missing ErrConfiguration: %v", err)
	}
}

func TestBuildEmptyCatalog(t *testing.T) {
	store := &fakeStore{}
	idx, err := newTestBuilder(store).Build(context.Background(), vectorize.StrategyTFIDF)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(idx.Records) != 0 || idx.Sim.Size != 0 {
		t.Errorf("empty catalog produced %d records, matrix size %d", len(idx.Records), idx.Sim.Size)
	}
}
