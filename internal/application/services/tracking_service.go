package services

import (
	"errors"
	"time"

	domainEvents "github.com/sitepulse/sitepulse-go/internal/domain/events"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/observability/logging"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/security"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/tracking"
)

// ErrBadRedirect indicates a missing or non-http(s) redirect destination.
// The endpoint fails closed: no event is written and no redirect happens.
var ErrBadRedirect = errors.New("bad redirect destination")

// RedirectRequest carries the inbound click's query parameters and ambient
// request metadata.
type RedirectRequest struct {
	Destination string
	EventType   string
	Fingerprint string
	Domain      string
	Tier        string
	UserAgent   string
	Referer     string
}

// TrackingService resolves tracked links: it logs one click event and hands
// back the validated destination for the redirect.
type TrackingService struct {
	events domainEvents.Repository
	logger *logging.ChanneledLogger
}

// NewTrackingService creates a new tracking service with its dependencies.
func NewTrackingService(events domainEvents.Repository, logger *logging.ChanneledLogger) *TrackingService {
	return &TrackingService{
		events: events,
		logger: logger,
	}
}

// TrackAndResolve validates the destination, appends one event, and returns
// the destination to redirect to. The event write is best-effort: an append
// failure is logged but never blocks the click-through. The contact email is
// deliberately never recorded on click events.
func (s *TrackingService) TrackAndResolve(req RedirectRequest) (string, error) {
	if !tracking.ValidDestination(req.Destination) {
		return "", ErrBadRedirect
	}

	eventType := req.EventType
	if eventType == "" {
		eventType = tracking.DefaultEventType
	}

	meta := map[string]string{}
	if req.UserAgent != "" {
		meta["userAgent"] = req.UserAgent
	}
	if req.Referer != "" {
		meta["referer"] = req.Referer
	}

	event := &domainEvents.Event{
		ID:          security.GenerateULID(),
		EventType:   eventType,
		Fingerprint: optional(req.Fingerprint),
		Domain:      optional(req.Domain),
		Tier:        optional(req.Tier),
		Meta:        meta,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.events.Append(event); err != nil {
		s.logger.LogError(logging.ChannelTracking, "append_click_event", err, map[string]any{
			"eventType":   eventType,
			"destination": req.Destination,
		})
	} else {
		s.logger.Tracking().Info("Click event recorded", "eventType", eventType, "fingerprint", req.Fingerprint, "domain", req.Domain)
	}

	return req.Destination, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
