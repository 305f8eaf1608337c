package analyzer

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/observability/logging"
	"github.com/sitepulse/sitepulse-go/pkg/config"
	"golang.org/x/time/rate"
)

const userAgent = "SitePulseBot/1.0 (+https://sitepulse.app/bot)"

// HTMLSource fetches a site's homepage and scores it on simple on-page checks:
// title quality, meta description, and heading structure. Outbound fetches are
// rate limited so a burst of analyze requests stays polite.
type HTMLSource struct {
	client  *http.Client
	limiter *rate.Limiter
	logger  *logging.ChanneledLogger
}

// NewHTMLSource creates a live report source with the configured fetch
// timeout and rate limit.
func NewHTMLSource(logger *logging.ChanneledLogger) *HTMLSource {
	return &HTMLSource{
		client: &http.Client{
			Timeout: config.AnalyzerFetchTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.AnalyzerRatePerSec), 1),
		logger:  logger,
	}
}

// Analyze fetches https://<domain>/ and extracts title, meta description, and
// h1 count. An unreachable site still yields a (low-scoring) result rather
// than an error, since "site does not respond" is itself a finding.
func (s *HTMLSource) Analyze(ctx context.Context, domain string) (*Result, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	doc, fetchErr := s.fetch(ctx, "https://"+domain+"/")
	if fetchErr != nil {
		s.logger.Analyze().Debug("Homepage fetch failed", "domain", domain, "error", fetchErr.Error(), "duration", time.Since(start))
		score := 10
		return &Result{
			Score:   &score,
			Summary: fmt.Sprintf("We could not load %s over HTTPS. An unreachable or misconfigured site is the first thing to fix.", domain),
		}, nil
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	metaDescription, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
	metaDescription = strings.TrimSpace(metaDescription)
	h1Count := doc.Find("h1").Length()

	score := s.score(title, metaDescription, h1Count)

	result := &Result{
		Score:   &score,
		Summary: s.summarize(domain, title, metaDescription, h1Count),
		H1Count: &h1Count,
	}
	if title != "" {
		result.Title = &title
	}
	if metaDescription != "" {
		result.MetaDescription = &metaDescription
	}

	s.logger.Analyze().Info("Homepage analyzed", "domain", domain, "score", score, "h1Count", h1Count, "duration", time.Since(start))
	return result, nil
}

func (s *HTMLSource) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

// score starts from a reachable-site baseline and rewards on-page hygiene.
func (s *HTMLSource) score(title, metaDescription string, h1Count int) int {
	score := 40 // the site loaded over HTTPS

	switch {
	case title == "":
		// nothing
	case len(title) <= 60:
		score += 20
	default:
		score += 10
	}

	switch {
	case metaDescription == "":
		// nothing
	case len(metaDescription) >= 50 && len(metaDescription) <= 160:
		score += 20
	default:
		score += 10
	}

	if h1Count == 1 {
		score += 20
	} else if h1Count > 1 {
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score
}

func (s *HTMLSource) summarize(domain, title, metaDescription string, h1Count int) string {
	var findings []string
	if title == "" {
		findings = append(findings, "the page has no title tag")
	}
	if metaDescription == "" {
		findings = append(findings, "the meta description is missing")
	}
	if h1Count == 0 {
		findings = append(findings, "there is no h1 heading")
	} else if h1Count > 1 {
		findings = append(findings, fmt.Sprintf("there are %d competing h1 headings", h1Count))
	}

	if len(findings) == 0 {
		return fmt.Sprintf("%s covers the on-page basics well. The next wins are in performance and content depth.", domain)
	}
	return fmt.Sprintf("On %s, %s. These are quick, high-impact fixes.", domain, strings.Join(findings, ", "))
}
