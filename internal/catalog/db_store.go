package catalog

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hana/reelmind/internal/domain"
)

// DBStore is the SQL-backed catalog. Deduplication rides on a unique index
// over the normalized title key, with the movie id checked first when set.
type DBStore struct {
	db *gorm.DB
}

// NewDBStore wraps an initialized database handle.
func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) LoadAll(ctx context.Context) ([]domain.Movie, error) {
	var movies []domain.Movie
	if err := s.db.WithContext(ctx).Order("created_at, title_key").Find(&movies).Error; err != nil {
		return nil, err
	}
	return movies, nil
}

func (s *DBStore) Append(ctx context.Context, movie domain.Movie) ([]domain.Movie, error) {
	return s.AppendMany(ctx, []domain.Movie{movie})
}

func (s *DBStore) AppendMany(ctx context.Context, movies []domain.Movie) ([]domain.Movie, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range movies {
			m := movies[i]
			m.TitleKey = strings.ToLower(m.Title)
			if m.ID != "" {
				var count int64
				if err := tx.Model(&domain.Movie{}).Where("movie_id = ?", m.ID).Count(&count).Error; err != nil {
					return err
				}
				if count > 0 {
					continue
				}
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "title_key"}},
				DoNothing: true,
			}).Create(&m).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.LoadAll(ctx)
}

func (s *DBStore) SetPoster(ctx context.Context, title, posterURL string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&domain.Movie{}).
		Where("title_key = ?", strings.ToLower(title)).
		Update("poster_path", posterURL)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
