// Package lead defines the persisted lead entity: a denormalized snapshot of
// one contact's interest in a report and its recommendation at request time.
package lead

import (
	"time"

	"github.com/sitepulse/sitepulse-go/internal/domain/recommendation"
)

// UnknownBusiness is the sentinel stored when no business name was supplied.
const UnknownBusiness = "Unknown Business"

// Lead correlates a contact with a report and the recommendation computed for
// it. Leads are insert-only; many leads may reference the same report, and a
// stored lead never changes when report or recommendation logic changes later.
type Lead struct {
	ID                    string              `json:"id"`
	Email                 string              `json:"email"`
	BusinessName          string              `json:"businessName"`
	ContactName           *string             `json:"contactName,omitempty"`
	Domain                string              `json:"domain"`
	Fingerprint           string              `json:"fingerprint"`
	Score                 *int                `json:"score,omitempty"`
	Summary               string              `json:"summary"`
	Tier                  recommendation.Tier `json:"tier"`
	PackageName           string              `json:"packageName"`
	BasePrice             float64             `json:"basePrice"`
	DiscountPercent       int                 `json:"discountPercent"`
	DiscountedPrice       float64             `json:"discountedPrice"`
	DiscountCode          string              `json:"discountCode"`
	DiscountDeadlineHours int                 `json:"discountDeadlineHours"`
	CreatedAt             time.Time           `json:"createdAt"`
}

// Metrics is an aggregate view over stored leads for the operator dashboard.
type Metrics struct {
	TotalLeads int        `json:"totalLeads"`
	LastLeadAt *time.Time `json:"lastLeadAt,omitempty"`
}

// Repository defines the operations for persisting Lead entities. Store never
// upserts and never deduplicates against prior leads for the same contact.
type Repository interface {
	Store(l *Lead) error
	GetMetrics() (*Metrics, error)
}
