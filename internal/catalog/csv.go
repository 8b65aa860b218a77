package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/hana/reelmind/internal/domain"
)

// csvHeader fixes the column order of the flat-file catalog.
var csvHeader = []string{
	"movie_id", "title", "genres", "cast", "director",
	"description", "rating", "popularity", "poster_path",
}

// CSVStore is the flat-file catalog backend. A single mutex serializes
// writers; reads go straight to the file so they see the latest durable
// snapshot. Writes replace the whole file via temp file + rename.
type CSVStore struct {
	path string
	mu   sync.Mutex
}

// NewCSVStore creates the parent directory if needed. A missing catalog file
// is an empty catalog, not an error.
func NewCSVStore(path string) (*CSVStore, error) {
	if path == "" {
		path = "./data/movies.csv"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}
	return &CSVStore{path: path}, nil
}

func (s *CSVStore) LoadAll(ctx context.Context) ([]domain.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.read()
}

func (s *CSVStore) Append(ctx context.Context, movie domain.Movie) ([]domain.Movie, error) {
	return s.AppendMany(ctx, []domain.Movie{movie})
}

func (s *CSVStore) AppendMany(ctx context.Context, movies []domain.Movie) ([]domain.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read()
	if err != nil {
		return nil, err
	}
	merged := domain.Dedupe(append(existing, movies...))
	if err := s.write(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

func (s *CSVStore) SetPoster(ctx context.Context, title, posterURL string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	movies, err := s.read()
	if err != nil {
		return false, err
	}
	updated := false
	for i := range movies {
		if strings.EqualFold(movies[i].Title, title) {
			movies[i].PosterPath = posterURL
			updated = true
			break
		}
	}
	if !updated {
		return false, nil
	}
	if err := s.write(movies); err != nil {
		return false, err
	}
	return true, nil
}

func (s *CSVStore) read() ([]domain.Movie, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Movie{}, nil
		}
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(rows) == 0 {
		return []domain.Movie{}, nil
	}

	// Map header names to positions so column order in the file is free.
	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[strings.TrimSpace(name)] = i
	}

	get := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	movies := make([]domain.Movie, 0, len(rows)-1)
	for _, row := range rows[1:] {
		m := domain.Movie{
			ID:          get(row, "movie_id"),
			Title:       get(row, "title"),
			Genres:      get(row, "genres"),
			Cast:        get(row, "cast"),
			Director:    get(row, "director"),
			Description: get(row, "description"),
			PosterPath:  get(row, "poster_path"),
		}
		m.Rating, _ = strconv.ParseFloat(get(row, "rating"), 64)
		m.Popularity, _ = strconv.ParseFloat(get(row, "popularity"), 64)
		if m.Title == "" {
			continue
		}
		movies = append(movies, m)
	}
	return domain.Dedupe(movies), nil
}

func (s *CSVStore) write(movies []domain.Movie) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".catalog-*")
	if err != nil {
		return fmt.Errorf("failed to create temp catalog: %w", err)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	if err := w.Write(csvHeader); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write catalog header: %w", err)
	}
	for _, m := range movies {
		row := []string{
			m.ID, m.Title, m.Genres, m.Cast, m.Director, m.Description,
			formatFloat(m.Rating), formatFloat(m.Popularity), m.PosterPath,
		}
		if err := w.Write(row); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("failed to write catalog row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to flush catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp catalog: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to publish catalog: %w", err)
	}
	return nil
}

func formatFloat(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
