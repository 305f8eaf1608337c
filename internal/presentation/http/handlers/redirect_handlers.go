package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sitepulse/sitepulse-go/internal/application/services"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/observability/logging"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/observability/performance"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/tracking"
)

// RedirectHandlers contains the tracked-redirect HTTP handlers
type RedirectHandlers struct {
	trackingService *services.TrackingService
	logger          *logging.ChanneledLogger
	perfTracker     *performance.Tracker
}

// NewRedirectHandlers creates redirect handlers with injected dependencies
func NewRedirectHandlers(trackingService *services.TrackingService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *RedirectHandlers {
	return &RedirectHandlers{
		trackingService: trackingService,
		logger:          logger,
		perfTracker:     perfTracker,
	}
}

// GetRedirect handles GET /r - logs a click event and redirects to the
// destination. An invalid destination fails closed with no event write.
func (h *RedirectHandlers) GetRedirect(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_redirect_request")
	defer marker.Complete()

	destination, err := h.trackingService.TrackAndResolve(services.RedirectRequest{
		Destination: c.Query(tracking.ParamDestination),
		EventType:   c.Query(tracking.ParamEventType),
		Fingerprint: c.Query(tracking.ParamFingerprint),
		Domain:      c.Query(tracking.ParamDomain),
		Tier:        c.Query(tracking.ParamTier),
		UserAgent:   c.Request.UserAgent(),
		Referer:     c.Request.Referer(),
	})
	if err != nil {
		marker.SetError(err)

		if errors.Is(err, services.ErrBadRedirect) {
			h.logger.Tracking().Warn("Rejected redirect with invalid destination", "to", c.Query(tracking.ParamDestination), "duration", time.Since(start))
			c.String(http.StatusBadRequest, "Bad redirect")
			return
		}

		h.logger.Tracking().Error("Redirect handling failed", "error", err.Error(), "duration", time.Since(start))
		c.String(http.StatusInternalServerError, "Internal error")
		return
	}

	marker.SetSuccess(true)
	h.logger.Tracking().Debug("Redirecting", "to", destination, "duration", time.Since(start))
	c.Redirect(http.StatusFound, destination)
}
