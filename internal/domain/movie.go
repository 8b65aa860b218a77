package domain

import (
	"strings"
	"time"
)

// Movie represents a catalog entry. The `movie_id` is optional: records scraped
// from an external API carry one, manually appended records may not. When the
// id is absent, the lower-cased title is the identity key for deduplication.
type Movie struct {
	ID          string  `gorm:"column:movie_id;type:text;index:idx_movies_movie_id" json:"movie_id,omitempty" csv:"movie_id"`
	Title       string  `gorm:"type:text;not null" json:"title" csv:"title"`
	TitleKey    string  `gorm:"column:title_key;type:text;uniqueIndex:idx_movies_title_key" json:"-" csv:"-"`
	Genres      string  `gorm:"type:text" json:"genres" csv:"genres"`
	Cast        string  `gorm:"type:text" json:"cast" csv:"cast"`
	Director    string  `gorm:"type:text" json:"director" csv:"director"`
	Description string  `gorm:"type:text" json:"description" csv:"description"`
	Rating      float64 `json:"rating" csv:"rating"`
	Popularity  float64 `json:"popularity" csv:"popularity"`
	PosterPath  string  `gorm:"column:poster_path;type:text" json:"poster_path,omitempty" csv:"poster_path"`

	CreatedAt time.Time `json:"created_at,omitempty" csv:"-"`
	UpdatedAt time.Time `json:"updated_at,omitempty" csv:"-"`
}

// TableName returns the database table name for Movie.
func (Movie) TableName() string {
	return "movies"
}

// Key returns the deduplication key: the id when present, otherwise the
// lower-cased title.
func (m *Movie) Key() string {
	if m.ID != "" {
		return "id:" + m.ID
	}
	return "title:" + strings.ToLower(m.Title)
}

// NormalizedMovie is a Movie plus its soup: the cleaned concatenation of the
// textual fields that feed the vectorizer. Derived during index builds, never
// persisted on its own.
type NormalizedMovie struct {
	Movie
	Soup string `json:"soup"`
}

// ScoredMovie pairs a movie with a similarity score from a query.
type ScoredMovie struct {
	Movie
	Score float64 `json:"score"`
}

// Dedupe returns movies with duplicates removed, keeping the first occurrence
// of each key and preserving catalog order.
func Dedupe(movies []Movie) []Movie {
	seen := make(map[string]struct{}, len(movies))
	out := make([]Movie, 0, len(movies))
	for _, m := range movies {
		key := m.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	return out
}
