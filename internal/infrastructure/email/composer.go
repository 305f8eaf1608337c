package email

import (
	"fmt"
	"strings"

	"github.com/sitepulse/sitepulse-go/internal/domain/recommendation"
	"github.com/sitepulse/sitepulse-go/internal/domain/report"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/email/templates"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/tracking"
	"github.com/sitepulse/sitepulse-go/pkg/config"
)

// ReportEmailProps carries everything needed to render the report notification.
type ReportEmailProps struct {
	BusinessName string
	ContactName  string
	Report       *report.Report
	Rec          recommendation.Recommendation
}

// ComposeReportEmail builds the plain-text and HTML renderings of the report
// notification. The call-to-action link is rewritten through the public
// redirect endpoint so the click can be logged before reaching the booking
// page; the true destination never appears in the message.
func ComposeReportEmail(props ReportEmailProps) Message {
	rep := props.Report
	rec := props.Rec

	scoreDisplay := "N/A"
	if rep.Score != nil {
		scoreDisplay = fmt.Sprintf("%d", *rep.Score)
	}

	greetingName := props.ContactName
	if greetingName == "" {
		greetingName = "there"
	}

	ctaURL := tracking.BuildRedirectURL(
		config.PublicBaseURL,
		config.BookingURL,
		"cta_book_call",
		rep.Fingerprint,
		rep.Domain,
		string(rec.Tier),
	)

	subject := fmt.Sprintf("Your website report for %s", rep.Domain)

	text := composeText(greetingName, props.BusinessName, scoreDisplay, ctaURL, rep, rec)
	html := composeHTML(greetingName, props.BusinessName, scoreDisplay, ctaURL, rep, rec)

	return Message{
		To:      "", // filled in by the caller
		Subject: subject,
		Text:    text,
		HTML:    html,
		BCC:     config.EmailBCC,
	}
}

func composeText(greetingName, businessName, scoreDisplay, ctaURL string, rep *report.Report, rec recommendation.Recommendation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hi %s,\n\n", greetingName)
	fmt.Fprintf(&b, "Here is the website report for %s (%s).\n\n", businessName, rep.Domain)
	fmt.Fprintf(&b, "Score: %s/100\n", scoreDisplay)
	fmt.Fprintf(&b, "Summary: %s\n\n", rep.Summary)
	fmt.Fprintf(&b, "Recommended package: %s\n", rec.PackageName)
	fmt.Fprintf(&b, "Price: $%.2f (now $%.2f with code %s)\n", rec.BasePrice, rec.DiscountedPrice, rec.Code)
	fmt.Fprintf(&b, "%s\n\n", rec.Urgency)
	b.WriteString("What's included:\n")
	for _, feature := range rec.Features {
		fmt.Fprintf(&b, "  - %s\n", feature)
	}
	fmt.Fprintf(&b, "\nBook a free intro call: %s\n\n", ctaURL)
	b.WriteString("- The SitePulse team\n")

	return b.String()
}

func composeHTML(greetingName, businessName, scoreDisplay, ctaURL string, rep *report.Report, rec recommendation.Recommendation) string {
	var content strings.Builder

	content.WriteString(templates.GetEmailHeading(fmt.Sprintf("Your report for %s", businessName)))
	content.WriteString(templates.GetEmailParagraph(fmt.Sprintf("Hi %s, here is what we found.", greetingName)))
	content.WriteString(templates.GetReportCard(templates.ReportCardProps{
		Domain:       rep.Domain,
		ScoreDisplay: scoreDisplay,
		Summary:      rep.Summary,
	}))
	content.WriteString(templates.GetEmailParagraph("Based on this score, we recommend:"))
	content.WriteString(templates.GetPackageCard(templates.PackageProps{
		PackageName:     rec.PackageName,
		BasePrice:       fmt.Sprintf("%.2f", rec.BasePrice),
		DiscountedPrice: fmt.Sprintf("%.2f", rec.DiscountedPrice),
		DiscountCode:    rec.Code,
		Urgency:         rec.Urgency,
		Features:        rec.Features,
	}))
	content.WriteString(templates.GetEmailButton(templates.ButtonProps{
		Text: "Book a free intro call",
		URL:  ctaURL,
	}))

	return templates.GetEmailLayout(templates.EmailLayoutProps{
		Preheader: fmt.Sprintf("%s scored %s/100", rep.Domain, scoreDisplay),
		Content:   content.String(),
	})
}
