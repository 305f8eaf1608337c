// Package services provides application orchestration for analyze and
// tracking requests.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sitepulse/sitepulse-go/internal/domain/identity"
	"github.com/sitepulse/sitepulse-go/internal/domain/lead"
	"github.com/sitepulse/sitepulse-go/internal/domain/recommendation"
	"github.com/sitepulse/sitepulse-go/internal/domain/report"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/analyzer"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/email"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/mailcheck"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/observability/logging"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/security"
)

// AnalyzeRequest is the validated-input shape for one analyze call.
type AnalyzeRequest struct {
	Name         string
	Email        string
	Website      string
	BusinessName string
	Refresh      bool
}

// AnalyzeResult is what the handler returns to the caller.
type AnalyzeResult struct {
	Report         *report.Report                `json:"report"`
	Recommendation recommendation.Recommendation `json:"recommendation"`
	Cached         bool                          `json:"cached"`
}

// AnalyzeService orchestrates the full request flow: email validation,
// identity normalization, report cache get-or-create, recommendation, lead
// recording, and notification dispatch.
type AnalyzeService struct {
	reports   report.Repository
	leads     lead.Repository
	source    analyzer.Source
	validator *mailcheck.Validator
	sink      email.Service
	logger    *logging.ChanneledLogger
}

// NewAnalyzeService creates a new analyze service with its dependencies.
func NewAnalyzeService(
	reports report.Repository,
	leads lead.Repository,
	source analyzer.Source,
	validator *mailcheck.Validator,
	sink email.Service,
	logger *logging.ChanneledLogger,
) *AnalyzeService {
	return &AnalyzeService{
		reports:   reports,
		leads:     leads,
		source:    source,
		validator: validator,
		sink:      sink,
		logger:    logger,
	}
}

// Analyze runs one request end to end. Validation failures surface as the
// mailcheck/identity sentinel errors and occur before any write; report cache
// failures surface as report.ErrCacheStorage. Lead recording and notification
// are best-effort and never fail the request.
func (s *AnalyzeService) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	if err := s.validator.Validate(ctx, req.Email); err != nil {
		return nil, err
	}

	siteID, err := identity.Normalize(req.Website)
	if err != nil {
		return nil, err
	}

	rep, cached, err := s.getOrCreate(ctx, siteID)
	if err != nil {
		return nil, err
	}

	rec := recommendation.Recommend(rep.Score)

	s.recordLead(req, siteID, rep, rec)
	s.notify(req, rep, rec, cached)

	return &AnalyzeResult{
		Report:         rep,
		Recommendation: rec,
		Cached:         cached,
	}, nil
}

// getOrCreate implements the report cache contract: at most one stored report
// per fingerprint. On a concurrent double-miss the unique index decides the
// winner and the loser re-reads the stored row.
func (s *AnalyzeService) getOrCreate(ctx context.Context, siteID identity.SiteIdentity) (*report.Report, bool, error) {
	start := time.Now()

	existing, err := s.reports.FindByFingerprint(siteID.Fingerprint)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", report.ErrCacheStorage, err)
	}
	if existing != nil {
		s.logger.LogCacheOperation("get_or_create", siteID.Fingerprint, true, time.Since(start))
		return existing, true, nil
	}

	result, err := s.source.Analyze(ctx, siteID.Domain)
	if err != nil {
		return nil, false, fmt.Errorf("report source failed for %s: %w", siteID.Domain, err)
	}

	now := time.Now().UTC()
	rep := &report.Report{
		ID:              security.GenerateULID(),
		Fingerprint:     siteID.Fingerprint,
		Domain:          siteID.Domain,
		Score:           result.Score,
		Summary:         result.Summary,
		Title:           result.Title,
		MetaDescription: result.MetaDescription,
		H1Count:         result.H1Count,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	inserted, err := s.reports.InsertIfAbsent(rep)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", report.ErrCacheStorage, err)
	}
	if !inserted {
		// A concurrent request won the insert; its row is authoritative.
		winner, err := s.reports.FindByFingerprint(siteID.Fingerprint)
		if err != nil || winner == nil {
			return nil, false, fmt.Errorf("%w: lost insert race and re-read failed", report.ErrCacheStorage)
		}
		s.logger.LogCacheOperation("get_or_create", siteID.Fingerprint, false, time.Since(start))
		return winner, false, nil
	}

	s.logger.LogCacheOperation("get_or_create", siteID.Fingerprint, false, time.Since(start))
	return rep, false, nil
}

// recordLead persists the denormalized lead snapshot. Failure is logged and
// swallowed: the user still gets their report when lead storage is down.
func (s *AnalyzeService) recordLead(req AnalyzeRequest, siteID identity.SiteIdentity, rep *report.Report, rec recommendation.Recommendation) {
	businessName := req.BusinessName
	if businessName == "" {
		businessName = lead.UnknownBusiness
	}
	var contactName *string
	if req.Name != "" {
		contactName = &req.Name
	}

	l := &lead.Lead{
		ID:                    security.GenerateULID(),
		Email:                 req.Email,
		BusinessName:          businessName,
		ContactName:           contactName,
		Domain:                siteID.Domain,
		Fingerprint:           siteID.Fingerprint,
		Score:                 rep.Score,
		Summary:               rep.Summary,
		Tier:                  rec.Tier,
		PackageName:           rec.PackageName,
		BasePrice:             rec.BasePrice,
		DiscountPercent:       rec.DiscountPercent,
		DiscountedPrice:       rec.DiscountedPrice,
		DiscountCode:          rec.Code,
		DiscountDeadlineHours: rec.ValidityHours,
		CreatedAt:             time.Now().UTC(),
	}

	if err := s.leads.Store(l); err != nil {
		s.logger.LogError(logging.ChannelAnalyze, "record_lead", err, map[string]any{
			"email":       req.Email,
			"fingerprint": siteID.Fingerprint,
		})
	}
}

// notify composes and dispatches the report email in the background. A fresh
// report always notifies; a cache hit notifies only when the caller asked for
// a refresh (refresh re-sends the stored report, it never re-analyzes).
func (s *AnalyzeService) notify(req AnalyzeRequest, rep *report.Report, rec recommendation.Recommendation, cached bool) {
	if cached && !req.Refresh {
		s.logger.Email().Debug("Notification suppressed for cache hit", "fingerprint", rep.Fingerprint, "email", req.Email)
		return
	}

	businessName := req.BusinessName
	if businessName == "" {
		businessName = lead.UnknownBusiness
	}

	msg := email.ComposeReportEmail(email.ReportEmailProps{
		BusinessName: businessName,
		ContactName:  req.Name,
		Report:       rep,
		Rec:          rec,
	})
	msg.To = req.Email

	// Fire-and-forget: send failures land on the email channel, never on the
	// request's response path.
	go func() {
		if err := s.sink.Send(msg); err != nil {
			s.logger.LogError(logging.ChannelEmail, "send_report", err, map[string]any{
				"to":          msg.To,
				"fingerprint": rep.Fingerprint,
			})
		}
	}()
}
