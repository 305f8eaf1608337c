// Package report defines the content-addressed site report entity and the
// repository interface that abstracts its persistence. The repository is the
// sole owner of report writes.
package report

import (
	"errors"
	"time"
)

// ErrCacheStorage indicates a storage failure on the primary report cache path.
// It is terminal for the request: a report is meaningless without confirmed
// persistence.
var ErrCacheStorage = errors.New("report cache storage failure")

// Report is the persisted analysis result for one site identity, keyed by its
// fingerprint. At most one report per fingerprint ever exists, and a stored
// report is treated as immutable.
type Report struct {
	ID              string    `json:"id"`
	Fingerprint     string    `json:"fingerprint"`
	Domain          string    `json:"domain"`
	Score           *int      `json:"score,omitempty"`
	Summary         string    `json:"summary"`
	Title           *string   `json:"title,omitempty"`
	MetaDescription *string   `json:"metaDescription,omitempty"`
	H1Count         *int      `json:"h1Count,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Repository defines the operations for persisting Report entities.
// InsertIfAbsent must be conditioned on fingerprint uniqueness: when a
// concurrent writer already inserted the row, it reports inserted=false and
// the caller re-reads the winning row.
type Repository interface {
	FindByFingerprint(fingerprint string) (*Report, error)
	InsertIfAbsent(r *Report) (inserted bool, err error)
}
