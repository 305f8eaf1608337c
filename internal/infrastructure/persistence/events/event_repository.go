// Package events provides the concrete SQL-based implementation of the
// append-only event log.
package events

import (
	"encoding/json"
	"time"

	domainEvents "github.com/sitepulse/sitepulse-go/internal/domain/events"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/observability/logging"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/persistence/database"
)

// SQLEventRepository is the SQL-based implementation of events.Repository.
type SQLEventRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLEventRepository creates a new instance of the repository.
func NewSQLEventRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLEventRepository {
	return &SQLEventRepository{
		db:     db,
		logger: logger,
	}
}

// Append writes one event row. There is no update or delete path.
func (r *SQLEventRepository) Append(e *domainEvents.Event) error {
	const query = `
		INSERT INTO events (id, event_type, email, fingerprint, domain, tier, meta, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing event append", "id", e.ID, "eventType", e.EventType)

	var meta any
	if len(e.Meta) > 0 {
		encoded, err := json.Marshal(e.Meta)
		if err != nil {
			r.logger.Database().Error("Event meta encoding failed", "error", err.Error(), "id", e.ID)
			return err
		}
		meta = string(encoded)
	}

	_, err := r.db.Exec(
		query,
		e.ID,
		e.EventType,
		nullString(e.Email),
		nullString(e.Fingerprint),
		nullString(e.Domain),
		nullString(e.Tier),
		meta,
		e.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		r.logger.Database().Error("Event append failed", "error", err.Error(), "id", e.ID, "eventType", e.EventType)
		return err
	}

	r.logger.Database().Info("Event append completed", "id", e.ID, "eventType", e.EventType, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// CountsByType returns event counts grouped by event type.
func (r *SQLEventRepository) CountsByType() (map[string]int, error) {
	const query = `SELECT event_type, COUNT(*) FROM events GROUP BY event_type`

	start := time.Now()
	r.logger.Database().Debug("Loading event counts by type")

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Database().Error("Failed to load event counts", "error", err.Error())
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var eventType string
		var count int
		if err := rows.Scan(&eventType, &count); err != nil {
			return nil, err
		}
		counts[eventType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return counts, nil
}

func nullString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
