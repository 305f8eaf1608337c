// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sitepulse/sitepulse-go/internal/application/services"
	"github.com/sitepulse/sitepulse-go/internal/domain/identity"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/mailcheck"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/observability/logging"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/observability/performance"
)

// AnalyzeHandlers contains the analyze-related HTTP handlers
type AnalyzeHandlers struct {
	analyzeService *services.AnalyzeService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewAnalyzeHandlers creates analyze handlers with injected dependencies
func NewAnalyzeHandlers(analyzeService *services.AnalyzeService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AnalyzeHandlers {
	return &AnalyzeHandlers{
		analyzeService: analyzeService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// AnalyzeRequestBody represents the JSON body of POST /api/analyze
type AnalyzeRequestBody struct {
	Name         string `json:"name,omitempty"`
	Email        string `json:"email"`
	Website      string `json:"website"`
	BusinessName string `json:"businessName,omitempty"`
	Refresh      bool   `json:"refresh,omitempty"`
}

// PostAnalyze handles POST /api/analyze - runs the full report flow
func (h *AnalyzeHandlers) PostAnalyze(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_analyze_request")
	defer marker.Complete()
	h.logger.Analyze().Debug("Received analyze request", "method", c.Request.Method, "path", c.Request.URL.Path)

	var body AnalyzeRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Analyze().Error("Analyze request JSON binding failed", "error", err.Error())
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid request format"})
		return
	}

	if body.Email == "" || body.Website == "" {
		h.logger.Analyze().Error("Analyze request missing required fields", "hasEmail", body.Email != "", "hasWebsite", body.Website != "")
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "email and website are required"})
		return
	}

	result, err := h.analyzeService.Analyze(c.Request.Context(), services.AnalyzeRequest{
		Name:         body.Name,
		Email:        body.Email,
		Website:      body.Website,
		BusinessName: body.BusinessName,
		Refresh:      body.Refresh,
	})
	if err != nil {
		marker.SetError(err)

		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, mailcheck.ErrInvalidEmailFormat),
			errors.Is(err, mailcheck.ErrUnreachableEmailDomain),
			errors.Is(err, identity.ErrInvalidIdentity):
			status = http.StatusBadRequest
		}

		h.logger.Analyze().Error("Analyze request failed",
			"error", err.Error(),
			"email", body.Email,
			"website", body.Website,
			"status", status,
			"duration", time.Since(start))
		h.logger.Perf().Info("Performance for PostAnalyze request", "duration", marker.Duration, "success", false)

		c.JSON(status, gin.H{"ok": false, "error": err.Error()})
		return
	}

	h.logger.Analyze().Info("Analyze request completed",
		"domain", result.Report.Domain,
		"fingerprint", result.Report.Fingerprint,
		"cached", result.Cached,
		"duration", time.Since(start))

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for PostAnalyze request", "duration", marker.Duration, "success", true)

	c.JSON(http.StatusOK, gin.H{
		"ok":             true,
		"cached":         result.Cached,
		"report":         result.Report,
		"recommendation": result.Recommendation,
	})
}
