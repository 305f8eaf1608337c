package analyzer

import (
	"context"
	"fmt"

	"github.com/sitepulse/sitepulse-go/internal/domain/identity"
)

// StubSource derives a reproducible score from the domain fingerprint so that
// development and test runs stay deterministic without network access.
type StubSource struct{}

// NewStubSource creates the deterministic stub source.
func NewStubSource() *StubSource {
	return &StubSource{}
}

// Analyze produces a synthetic result. The score is a pure function of the
// domain, so repeated calls agree with each other and with the cache.
func (s *StubSource) Analyze(ctx context.Context, domain string) (*Result, error) {
	fp := identity.Fingerprint(domain)

	// Two hex chars give 0-255; fold into the 0-100 score range.
	var seed int
	fmt.Sscanf(fp[:2], "%x", &seed)
	score := seed * 100 / 255

	return &Result{
		Score:   &score,
		Summary: summaryFor(domain, score),
	}, nil
}

func summaryFor(domain string, score int) string {
	switch {
	case score >= 85:
		return fmt.Sprintf("%s is in great shape. A few small refinements would keep it ahead of the pack.", domain)
	case score >= 60:
		return fmt.Sprintf("%s has a solid foundation but leaves measurable performance and SEO gains on the table.", domain)
	default:
		return fmt.Sprintf("%s has significant issues holding it back. Addressing them should move the needle quickly.", domain)
	}
}
