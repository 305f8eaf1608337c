// Package analyzer provides the report source collaborators that produce the
// analytical content (score, summary, on-page fields) for a site identity.
package analyzer

import "context"

// Result is the analytical output for one domain.
type Result struct {
	Score           *int    `json:"score,omitempty"`
	Summary         string  `json:"summary"`
	Title           *string `json:"title,omitempty"`
	MetaDescription *string `json:"metaDescription,omitempty"`
	H1Count         *int    `json:"h1Count,omitempty"`
}

// Source produces a report for a normalized domain. Implementations may be
// slow or unreliable; callers treat them as external dependencies.
type Source interface {
	Analyze(ctx context.Context, domain string) (*Result, error)
}
