package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hana/reelmind/internal/index"
)

// AdminHandler exposes maintenance operations.
type AdminHandler struct {
	refresher *index.Refresher
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(refresher *index.Refresher) *AdminHandler {
	return &AdminHandler{refresher: refresher}
}

// Refresh handles POST /api/v1/refresh. When a build is already in flight
// the request is a no-op and reports as much.
func (h *AdminHandler) Refresh(c *gin.Context) {
	ran, err := h.refresher.Refresh(c.Request.Context())
	if !ran {
		c.JSON(http.StatusAccepted, gin.H{"status": "refresh already in progress"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Refresh failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
}
