package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hana/reelmind/internal/domain"
	"github.com/hana/reelmind/internal/recommend"
)

const defaultTopN = 10

// RecommendHandler serves recommendation queries.
type RecommendHandler struct {
	engine *recommend.Engine
}

// NewRecommendHandler creates a recommendation handler.
func NewRecommendHandler(engine *recommend.Engine) *RecommendHandler {
	return &RecommendHandler{engine: engine}
}

// Recommend handles GET /api/v1/recommend?title=...|genre=...&n=N.
// Exactly one of title or genre must be provided.
func (h *RecommendHandler) Recommend(c *gin.Context) {
	title := c.Query("title")
	genre := c.Query("genre")
	if title == "" && genre == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide either title or genre"})
		return
	}

	topN := defaultTopN
	if n := c.Query("n"); n != "" {
		parsed, err := strconv.Atoi(n)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parameter n must be a non-negative integer"})
			return
		}
		topN = parsed
	}

	var (
		results []domain.ScoredMovie
		source  string
		err     error
	)
	if title != "" {
		results, err = h.engine.ByTitle(c.Request.Context(), title, topN)
		source = "title"
	} else {
		results, err = h.engine.ByGenre(c.Request.Context(), genre, topN)
		source = "genre"
	}
	if err != nil {
		writeEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"source":  source,
	})
}

// writeEngineError maps engine errors onto HTTP status codes.
func writeEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNoIndex):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
