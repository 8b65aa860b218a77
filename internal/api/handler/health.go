package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hana/reelmind/internal/recommend"
)

// HealthHandler reports serving state.
type HealthHandler struct {
	engine *recommend.Engine
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(engine *recommend.Engine) *HealthHandler {
	return &HealthHandler{engine: engine}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	health := h.engine.Health(c.Request.Context())
	resp := gin.H{
		"status":       "ok",
		"record_count": health.RecordCount,
	}
	if !health.LastBuildTime.IsZero() {
		resp["last_build_time"] = health.LastBuildTime
	}
	c.JSON(http.StatusOK, resp)
}
