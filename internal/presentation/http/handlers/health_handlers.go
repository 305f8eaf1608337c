package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/persistence/database"
)

// HealthHandlers contains the liveness HTTP handlers
type HealthHandlers struct {
	db *database.DB
}

// NewHealthHandlers creates health handlers with injected dependencies
func NewHealthHandlers(db *database.DB) *HealthHandlers {
	return &HealthHandlers{db: db}
}

// GetHealth handles GET /health - liveness probe
func (h *HealthHandlers) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"message": "SitePulse is running",
	})
}
