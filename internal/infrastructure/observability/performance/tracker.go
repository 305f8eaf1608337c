// Package performance provides performance tracking capabilities
// for SitePulse operations with aggregate metrics.
package performance

import (
	"sync"
	"time"
)

// Tracker manages performance markers and provides metrics aggregation
type Tracker struct {
	markers    []*Marker
	maxMarkers int
	started    time.Time
	mu         sync.RWMutex
}

// NewTracker creates a new performance tracker
func NewTracker() *Tracker {
	return &Tracker{
		maxMarkers: 1000,
		started:    time.Now(),
	}
}

// StartOperation creates a new marker for an operation and registers it
func (t *Tracker) StartOperation(operation string) *Marker {
	marker := &Marker{
		Operation: operation,
		StartTime: time.Now(),
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.markers = append(t.markers, marker)
	if len(t.markers) > t.maxMarkers {
		t.markers = t.markers[len(t.markers)-t.maxMarkers:]
	}

	return marker
}

// Summary aggregates completed markers into per-operation statistics
func (t *Tracker) Summary() map[string]OperationStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := make(map[string]OperationStats)
	for _, m := range t.markers {
		if !m.Completed {
			continue
		}
		s := stats[m.Operation]
		s.Count++
		s.TotalDuration += m.Duration
		if m.Success {
			s.Successes++
		}
		if m.Duration > s.MaxDuration {
			s.MaxDuration = m.Duration
		}
		stats[m.Operation] = s
	}

	return stats
}

// Uptime reports how long the tracker has been running
func (t *Tracker) Uptime() time.Duration {
	return time.Since(t.started)
}

// OperationStats holds aggregate metrics for a single operation
type OperationStats struct {
	Count         int           `json:"count"`
	Successes     int           `json:"successes"`
	TotalDuration time.Duration `json:"totalDuration"`
	MaxDuration   time.Duration `json:"maxDuration"`
}
