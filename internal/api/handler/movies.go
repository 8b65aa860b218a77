package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hana/reelmind/internal/catalog"
	"github.com/hana/reelmind/internal/domain"
	"github.com/hana/reelmind/internal/logger"
)

// MovieHandler serves catalog reads and appends.
type MovieHandler struct {
	store catalog.Store
}

// NewMovieHandler creates a movie handler.
func NewMovieHandler(store catalog.Store) *MovieHandler {
	return &MovieHandler{store: store}
}

// movieInput is the append payload. Genres and cast are pipe-delimited.
type movieInput struct {
	ID          string  `json:"movie_id"`
	Title       string  `json:"title" binding:"required"`
	Genres      string  `json:"genres"`
	Cast        string  `json:"cast"`
	Director    string  `json:"director"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating" binding:"gte=0"`
	Popularity  float64 `json:"popularity" binding:"gte=0"`
	PosterPath  string  `json:"poster_path"`
}

// ListMovies handles GET /api/v1/movies.
func (h *MovieHandler) ListMovies(c *gin.Context) {
	movies, err := h.store.LoadAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load catalog: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"movies": movies,
		"total":  len(movies),
	})
}

// AppendMovie handles POST /api/v1/movies. The appended record becomes
// visible to queries after the next index refresh.
func (h *MovieHandler) AppendMovie(c *gin.Context) {
	var in movieInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	movie := domain.Movie{
		ID:          in.ID,
		Title:       in.Title,
		Genres:      in.Genres,
		Cast:        in.Cast,
		Director:    in.Director,
		Description: in.Description,
		Rating:      in.Rating,
		Popularity:  in.Popularity,
		PosterPath:  in.PosterPath,
	}

	snapshot, err := h.store.Append(c.Request.Context(), movie)
	if err != nil {
		logger.FromContext(c.Request.Context()).WithError(err).Error("Catalog append failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to append movie: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"title": movie.Title,
		"total": len(snapshot),
	})
}

// ListGenres handles GET /api/v1/genres: the distinct genre labels present
// in the catalog.
func (h *MovieHandler) ListGenres(c *gin.Context) {
	movies, err := h.store.LoadAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load catalog: " + err.Error()})
		return
	}

	seen := make(map[string]struct{})
	genres := make([]string, 0)
	for _, m := range movies {
		for _, g := range strings.Split(m.Genres, "|") {
			g = strings.TrimSpace(g)
			if g == "" {
				continue
			}
			key := strings.ToLower(g)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			genres = append(genres, g)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"genres": genres,
		"total":  len(genres),
	})
}
