package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sitepulse/sitepulse-go/internal/application/services"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/observability/logging"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/observability/performance"
)

// AnalyticsHandlers contains the read-only metrics HTTP handlers
type AnalyticsHandlers struct {
	analyticsService *services.AnalyticsService
	logger           *logging.ChanneledLogger
	perfTracker      *performance.Tracker
}

// NewAnalyticsHandlers creates analytics handlers with injected dependencies
func NewAnalyticsHandlers(analyticsService *services.AnalyticsService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		analyticsService: analyticsService,
		logger:           logger,
		perfTracker:      perfTracker,
	}
}

// GetLeadMetrics handles GET /api/leads/metrics
func (h *AnalyticsHandlers) GetLeadMetrics(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_lead_metrics_request")
	defer marker.Complete()

	metrics, err := h.analyticsService.LeadMetrics()
	if err != nil {
		marker.SetError(err)
		h.logger.Analytics().Error("Lead metrics query failed", "error", err.Error(), "duration", time.Since(start))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to load lead metrics"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"ok": true, "metrics": metrics})
}

// GetEventMetrics handles GET /api/events/metrics
func (h *AnalyticsHandlers) GetEventMetrics(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_event_metrics_request")
	defer marker.Complete()

	counts, err := h.analyticsService.EventMetrics()
	if err != nil {
		marker.SetError(err)
		h.logger.Analytics().Error("Event metrics query failed", "error", err.Error(), "duration", time.Since(start))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to load event metrics"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"ok": true, "counts": counts})
}
