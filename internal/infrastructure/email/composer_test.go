package email

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitepulse/sitepulse-go/internal/domain/recommendation"
	"github.com/sitepulse/sitepulse-go/internal/domain/report"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/tracking"
	"github.com/sitepulse/sitepulse-go/pkg/config"
)

func sampleReport(score *int) *report.Report {
	now := time.Now().UTC()
	return &report.Report{
		ID:          "01J0000000000000000000TEST",
		Fingerprint: "abc123",
		Domain:      "example.com",
		Score:       score,
		Summary:     "Solid foundation with room to grow.",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestComposeReportEmailContent(t *testing.T) {
	score := 72
	msg := ComposeReportEmail(ReportEmailProps{
		BusinessName: "Example LLC",
		ContactName:  "Jamie",
		Report:       sampleReport(&score),
		Rec:          recommendation.Recommend(&score),
	})

	assert.Equal(t, "Your website report for example.com", msg.Subject)
	assert.Empty(t, msg.To, "recipient is filled in by the caller")

	assert.Contains(t, msg.Text, "Hi Jamie,")
	assert.Contains(t, msg.Text, "Example LLC")
	assert.Contains(t, msg.Text, "Score: 72/100")
	assert.Contains(t, msg.Text, "Business Growth")
	assert.Contains(t, msg.Text, "SITE15")

	assert.Contains(t, msg.HTML, "example.com")
	assert.Contains(t, msg.HTML, "Business Growth")
}

func TestComposeReportEmailRoutesCTAThroughRedirect(t *testing.T) {
	score := 72
	msg := ComposeReportEmail(ReportEmailProps{
		BusinessName: "Example LLC",
		Report:       sampleReport(&score),
		Rec:          recommendation.Recommend(&score),
	})

	ctaPrefix := strings.TrimRight(config.PublicBaseURL, "/") + tracking.RedirectPath + "?"
	assert.Contains(t, msg.Text, ctaPrefix, "CTA link must pass through the redirect endpoint")
	assert.Contains(t, msg.HTML, ctaPrefix)

	// The tracked link carries the booking destination as a parameter rather
	// than exposing it as a bare link.
	require.NotEmpty(t, config.BookingURL)
	assert.NotContains(t, msg.Text, "call: "+config.BookingURL)
}

func TestComposeReportEmailNilScore(t *testing.T) {
	msg := ComposeReportEmail(ReportEmailProps{
		BusinessName: "Example LLC",
		Report:       sampleReport(nil),
		Rec:          recommendation.Recommend(nil),
	})

	assert.Contains(t, msg.Text, "Score: N/A/100")
	assert.Contains(t, msg.Text, "Hi there,")
	assert.Contains(t, msg.Text, "Business Growth")
}
