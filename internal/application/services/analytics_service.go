package services

import (
	domainEvents "github.com/sitepulse/sitepulse-go/internal/domain/events"
	"github.com/sitepulse/sitepulse-go/internal/domain/lead"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/observability/logging"
)

// AnalyticsService serves the read-only lead and event metrics endpoints.
type AnalyticsService struct {
	leads  lead.Repository
	events domainEvents.Repository
	logger *logging.ChanneledLogger
}

// NewAnalyticsService creates a new analytics service with its dependencies.
func NewAnalyticsService(leads lead.Repository, events domainEvents.Repository, logger *logging.ChanneledLogger) *AnalyticsService {
	return &AnalyticsService{
		leads:  leads,
		events: events,
		logger: logger,
	}
}

// LeadMetrics returns the aggregate lead count and most recent lead time.
func (s *AnalyticsService) LeadMetrics() (*lead.Metrics, error) {
	return s.leads.GetMetrics()
}

// EventMetrics returns event counts grouped by event type.
func (s *AnalyticsService) EventMetrics() (map[string]int, error) {
	return s.events.CountsByType()
}
