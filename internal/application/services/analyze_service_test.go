package services

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainEvents "github.com/sitepulse/sitepulse-go/internal/domain/events"
	"github.com/sitepulse/sitepulse-go/internal/domain/identity"
	"github.com/sitepulse/sitepulse-go/internal/domain/lead"
	"github.com/sitepulse/sitepulse-go/internal/domain/recommendation"
	"github.com/sitepulse/sitepulse-go/internal/domain/report"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/analyzer"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/email"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/mailcheck"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/observability/logging"
)

// --- fakes ---

type fakeReportRepo struct {
	mu       sync.Mutex
	rows     map[string]*report.Report
	findErr  error
	storeErr error
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{rows: make(map[string]*report.Report)}
}

func (f *fakeReportRepo) FindByFingerprint(fingerprint string) (*report.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.rows[fingerprint], nil
}

func (f *fakeReportRepo) InsertIfAbsent(r *report.Report) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.storeErr != nil {
		return false, f.storeErr
	}
	if _, exists := f.rows[r.Fingerprint]; exists {
		return false, nil
	}
	f.rows[r.Fingerprint] = r
	return true, nil
}

type fakeLeadRepo struct {
	mu       sync.Mutex
	leads    []*lead.Lead
	storeErr error
}

func (f *fakeLeadRepo) Store(l *lead.Lead) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.storeErr != nil {
		return f.storeErr
	}
	f.leads = append(f.leads, l)
	return nil
}

func (f *fakeLeadRepo) GetMetrics() (*lead.Metrics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &lead.Metrics{TotalLeads: len(f.leads)}, nil
}

func (f *fakeLeadRepo) stored() []*lead.Lead {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*lead.Lead(nil), f.leads...)
}

type fakeSink struct {
	sent chan email.Message
	err  error
}

func newFakeSink() *fakeSink {
	return &fakeSink{sent: make(chan email.Message, 8)}
}

func (f *fakeSink) Send(msg email.Message) error {
	f.sent <- msg
	return f.err
}

type fakeSource struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeSource) Analyze(ctx context.Context, domain string) (*analyzer.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	score := 72
	return &analyzer.Result{
		Score:   &score,
		Summary: domain + " has a solid foundation.",
	}, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type okResolver struct{}

func (okResolver) LookupMX(ctx context.Context, name string) ([]*net.MX, error) {
	return []*net.MX{{Host: "mx1." + name, Pref: 10}}, nil
}

type deadResolver struct{}

func (deadResolver) LookupMX(ctx context.Context, name string) ([]*net.MX, error) {
	return nil, nil
}

// --- fixture ---

type analyzeFixture struct {
	service *AnalyzeService
	reports *fakeReportRepo
	leads   *fakeLeadRepo
	source  *fakeSource
	sink    *fakeSink
}

func newAnalyzeFixture(t *testing.T, resolver mailcheck.MXResolver) *analyzeFixture {
	t.Helper()

	cfg := logging.DefaultLoggerConfig()
	cfg.DefaultLevel = slog.LevelError
	logger, err := logging.NewChanneledLogger(cfg)
	require.NoError(t, err)

	f := &analyzeFixture{
		reports: newFakeReportRepo(),
		leads:   &fakeLeadRepo{},
		source:  &fakeSource{},
		sink:    newFakeSink(),
	}
	validator := mailcheck.NewValidatorWithResolver(resolver, 200*time.Millisecond, logger)
	f.service = NewAnalyzeService(f.reports, f.leads, f.source, validator, f.sink, logger)
	return f
}

func validRequest() AnalyzeRequest {
	return AnalyzeRequest{
		Name:         "Jamie",
		Email:        "owner@example.com",
		Website:      "https://www.Example.com",
		BusinessName: "Example LLC",
	}
}

func awaitMessage(t *testing.T, sink *fakeSink) email.Message {
	t.Helper()
	select {
	case msg := <-sink.sent:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("expected a notification to be sent")
		return email.Message{}
	}
}

func assertNoMessage(t *testing.T, sink *fakeSink) {
	t.Helper()
	select {
	case <-sink.sent:
		t.Fatal("expected no notification")
	case <-time.After(100 * time.Millisecond):
	}
}

// --- tests ---

func TestAnalyzeFreshRequestFullFlow(t *testing.T) {
	f := newAnalyzeFixture(t, okResolver{})

	result, err := f.service.Analyze(context.Background(), validRequest())
	require.NoError(t, err)

	assert.False(t, result.Cached)
	assert.Equal(t, "example.com", result.Report.Domain)
	assert.Equal(t, identity.Fingerprint("example.com"), result.Report.Fingerprint)
	require.NotNil(t, result.Report.Score)
	assert.Equal(t, 72, *result.Report.Score)
	assert.Equal(t, recommendation.TierBusiness, result.Recommendation.Tier)
	assert.Equal(t, 424.15, result.Recommendation.DiscountedPrice)

	leads := f.leads.stored()
	require.Len(t, leads, 1)
	assert.Equal(t, "owner@example.com", leads[0].Email)
	assert.Equal(t, "Example LLC", leads[0].BusinessName)
	require.NotNil(t, leads[0].ContactName)
	assert.Equal(t, "Jamie", *leads[0].ContactName)
	assert.Equal(t, recommendation.TierBusiness, leads[0].Tier)

	msg := awaitMessage(t, f.sink)
	assert.Equal(t, "owner@example.com", msg.To)
	assert.NotEmpty(t, msg.Subject)
	assert.NotEmpty(t, msg.HTML)
}

func TestAnalyzeCacheHitSkipsSourceAndNotification(t *testing.T) {
	f := newAnalyzeFixture(t, okResolver{})

	_, err := f.service.Analyze(context.Background(), validRequest())
	require.NoError(t, err)
	awaitMessage(t, f.sink)
	require.Equal(t, 1, f.source.callCount())

	result, err := f.service.Analyze(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, result.Cached)
	assert.Equal(t, 1, f.source.callCount(), "cache hit must not re-analyze")
	assertNoMessage(t, f.sink)

	// Every request still records a lead.
	assert.Len(t, f.leads.stored(), 2)
}

func TestAnalyzeRefreshResendsWithoutReanalyzing(t *testing.T) {
	f := newAnalyzeFixture(t, okResolver{})

	_, err := f.service.Analyze(context.Background(), validRequest())
	require.NoError(t, err)
	awaitMessage(t, f.sink)

	req := validRequest()
	req.Refresh = true
	result, err := f.service.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, result.Cached)
	assert.Equal(t, 1, f.source.callCount(), "refresh re-sends, it never re-analyzes")
	msg := awaitMessage(t, f.sink)
	assert.Equal(t, "owner@example.com", msg.To)
}

func TestAnalyzeURLVariantsShareOneReport(t *testing.T) {
	f := newAnalyzeFixture(t, okResolver{})

	first, err := f.service.Analyze(context.Background(), AnalyzeRequest{
		Email: "a@example.com", Website: "example.com",
	})
	require.NoError(t, err)

	second, err := f.service.Analyze(context.Background(), AnalyzeRequest{
		Email: "b@example.com", Website: "https://www.example.com/pricing",
	})
	require.NoError(t, err)

	assert.Equal(t, first.Report.ID, second.Report.ID)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, f.source.callCount())
}

func TestAnalyzeRejectsBadEmailBeforeAnyWrite(t *testing.T) {
	f := newAnalyzeFixture(t, okResolver{})

	req := validRequest()
	req.Email = "not-an-email"
	_, err := f.service.Analyze(context.Background(), req)
	assert.ErrorIs(t, err, mailcheck.ErrInvalidEmailFormat)

	assert.Empty(t, f.leads.stored())
	assert.Equal(t, 0, f.source.callCount())
}

func TestAnalyzeRejectsUnreachableEmailDomain(t *testing.T) {
	f := newAnalyzeFixture(t, deadResolver{})

	_, err := f.service.Analyze(context.Background(), validRequest())
	assert.ErrorIs(t, err, mailcheck.ErrUnreachableEmailDomain)
	assert.Empty(t, f.leads.stored())
}

func TestAnalyzeRejectsInvalidWebsite(t *testing.T) {
	f := newAnalyzeFixture(t, okResolver{})

	req := validRequest()
	req.Website = "   "
	_, err := f.service.Analyze(context.Background(), req)
	assert.ErrorIs(t, err, identity.ErrInvalidIdentity)
	assert.Empty(t, f.leads.stored())
}

func TestAnalyzeCacheStorageFailureIsTerminal(t *testing.T) {
	f := newAnalyzeFixture(t, okResolver{})
	f.reports.storeErr = errors.New("disk full")

	_, err := f.service.Analyze(context.Background(), validRequest())
	assert.ErrorIs(t, err, report.ErrCacheStorage)
	assert.Empty(t, f.leads.stored())
	assertNoMessage(t, f.sink)
}

func TestAnalyzeLostInsertRaceReturnsWinner(t *testing.T) {
	f := newAnalyzeFixture(t, okResolver{})

	// Pre-seed the winner row while forcing the first read to miss would need
	// interleaving; instead simulate the loser path directly: the row appears
	// between the find and the insert.
	fp := identity.Fingerprint("example.com")
	winner := &report.Report{
		ID:          "winner",
		Fingerprint: fp,
		Domain:      "example.com",
		Summary:     "stored first",
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	raced := &racingReportRepo{inner: f.reports, winner: winner}
	f.service.reports = raced

	result, err := f.service.Analyze(context.Background(), validRequest())
	require.NoError(t, err)

	assert.False(t, result.Cached, "race loser reports cached=false")
	assert.Equal(t, "winner", result.Report.ID)
}

// racingReportRepo misses on the first read, then lets a concurrent winner
// land before the insert.
type racingReportRepo struct {
	mu     sync.Mutex
	inner  *fakeReportRepo
	winner *report.Report
	finds  int
}

func (r *racingReportRepo) FindByFingerprint(fingerprint string) (*report.Report, error) {
	r.mu.Lock()
	r.finds++
	first := r.finds == 1
	r.mu.Unlock()
	if first {
		return nil, nil
	}
	return r.inner.FindByFingerprint(fingerprint)
}

func (r *racingReportRepo) InsertIfAbsent(rep *report.Report) (bool, error) {
	r.mu.Lock()
	if r.winner != nil {
		r.inner.rows[r.winner.Fingerprint] = r.winner
		r.winner = nil
	}
	r.mu.Unlock()
	return r.inner.InsertIfAbsent(rep)
}

func TestAnalyzeLeadFailureDoesNotFailRequest(t *testing.T) {
	f := newAnalyzeFixture(t, okResolver{})
	f.leads.storeErr = errors.New("leads table locked")

	result, err := f.service.Analyze(context.Background(), validRequest())
	require.NoError(t, err)
	assert.False(t, result.Cached)
	awaitMessage(t, f.sink)
}

func TestAnalyzeDefaultsBusinessName(t *testing.T) {
	f := newAnalyzeFixture(t, okResolver{})

	req := validRequest()
	req.BusinessName = ""
	req.Name = ""
	_, err := f.service.Analyze(context.Background(), req)
	require.NoError(t, err)

	leads := f.leads.stored()
	require.Len(t, leads, 1)
	assert.Equal(t, lead.UnknownBusiness, leads[0].BusinessName)
	assert.Nil(t, leads[0].ContactName)
}

// --- tracking service ---

type fakeEventRepo struct {
	mu        sync.Mutex
	events    []*domainEvents.Event
	appendErr error
}

func (f *fakeEventRepo) Append(e *domainEvents.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.events = append(f.events, e)
	return nil
}

func (f *fakeEventRepo) CountsByType() (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int)
	for _, e := range f.events {
		counts[e.EventType]++
	}
	return counts, nil
}

func newTrackingFixture(t *testing.T) (*TrackingService, *fakeEventRepo) {
	t.Helper()

	cfg := logging.DefaultLoggerConfig()
	cfg.DefaultLevel = slog.LevelError
	logger, err := logging.NewChanneledLogger(cfg)
	require.NoError(t, err)

	repo := &fakeEventRepo{}
	return NewTrackingService(repo, logger), repo
}

func TestTrackAndResolveRecordsClick(t *testing.T) {
	service, repo := newTrackingFixture(t)

	destination, err := service.TrackAndResolve(RedirectRequest{
		Destination: "https://cal.com/sitepulse/intro",
		EventType:   "cta_book_call",
		Fingerprint: "abc123",
		Domain:      "example.com",
		Tier:        "business",
		UserAgent:   "Mozilla/5.0",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cal.com/sitepulse/intro", destination)

	require.Len(t, repo.events, 1)
	e := repo.events[0]
	assert.Equal(t, "cta_book_call", e.EventType)
	require.NotNil(t, e.Fingerprint)
	assert.Equal(t, "abc123", *e.Fingerprint)
	assert.Nil(t, e.Email, "click events never carry the contact email")
	assert.Equal(t, "Mozilla/5.0", e.Meta["userAgent"])
}

func TestTrackAndResolveDefaultsEventType(t *testing.T) {
	service, repo := newTrackingFixture(t)

	_, err := service.TrackAndResolve(RedirectRequest{Destination: "https://example.com"})
	require.NoError(t, err)

	require.Len(t, repo.events, 1)
	assert.Equal(t, "click", repo.events[0].EventType)
}

func TestTrackAndResolveFailsClosedOnBadDestination(t *testing.T) {
	service, repo := newTrackingFixture(t)

	for _, destination := range []string{"", "javascript:alert(1)", "//evil.example", "cal.com"} {
		_, err := service.TrackAndResolve(RedirectRequest{Destination: destination})
		assert.ErrorIs(t, err, ErrBadRedirect, "destination %q", destination)
	}

	assert.Empty(t, repo.events, "no event may be written for a rejected redirect")
}

func TestTrackAndResolveAppendFailureStillRedirects(t *testing.T) {
	service, repo := newTrackingFixture(t)
	repo.appendErr = errors.New("events table locked")

	destination, err := service.TrackAndResolve(RedirectRequest{Destination: "https://example.com"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", destination)
}
