// Package events defines the append-only interaction event entity.
package events

import "time"

// Event is one row of the audit trail. Events are never updated or deleted.
type Event struct {
	ID          string            `json:"id"`
	EventType   string            `json:"eventType"`
	Email       *string           `json:"email,omitempty"`
	Fingerprint *string           `json:"fingerprint,omitempty"`
	Domain      *string           `json:"domain,omitempty"`
	Tier        *string           `json:"tier,omitempty"`
	Meta        map[string]string `json:"meta,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// Repository defines the operations for the append-only event log.
type Repository interface {
	Append(e *Event) error
	CountsByType() (map[string]int, error)
}
