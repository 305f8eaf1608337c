// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/sitepulse/sitepulse-go/internal/application/services"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/analyzer"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/email"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/mailcheck"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/observability/logging"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/observability/performance"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/persistence/database"
	persistEvents "github.com/sitepulse/sitepulse-go/internal/infrastructure/persistence/events"
	persistLeads "github.com/sitepulse/sitepulse-go/internal/infrastructure/persistence/leads"
	persistReports "github.com/sitepulse/sitepulse-go/internal/infrastructure/persistence/reports"
	"github.com/sitepulse/sitepulse-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application Services (stateless singletons)
	AnalyzeService   *services.AnalyzeService
	TrackingService  *services.TrackingService
	AnalyticsService *services.AnalyticsService

	// Infrastructure Dependencies
	DB          *database.DB
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker
}

// NewContainer creates and wires all singleton services
func NewContainer(db *database.DB, logger *logging.ChanneledLogger) *Container {
	reportRepo := persistReports.NewSQLReportRepository(db, logger)
	leadRepo := persistLeads.NewSQLLeadRepository(db, logger)
	eventRepo := persistEvents.NewSQLEventRepository(db, logger)

	validator := mailcheck.NewValidator(logger)
	sink := email.NewService(logger)

	var source analyzer.Source
	if config.AnalyzerMode == "live" {
		source = analyzer.NewHTMLSource(logger)
	} else {
		source = analyzer.NewStubSource()
	}

	return &Container{
		AnalyzeService:   services.NewAnalyzeService(reportRepo, leadRepo, source, validator, sink, logger),
		TrackingService:  services.NewTrackingService(eventRepo, logger),
		AnalyticsService: services.NewAnalyticsService(leadRepo, eventRepo, logger),

		DB:          db,
		Logger:      logger,
		PerfTracker: performance.NewTracker(),
	}
}
