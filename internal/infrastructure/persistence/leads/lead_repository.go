// Package leads provides the concrete SQL-based implementation of the
// insert-only lead repository.
package leads

import (
	"database/sql"
	"time"

	"github.com/sitepulse/sitepulse-go/internal/domain/lead"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/observability/logging"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/persistence/database"
)

// SQLLeadRepository is the SQL-based implementation of lead.Repository.
type SQLLeadRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLLeadRepository creates a new instance of the repository.
func NewSQLLeadRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLLeadRepository {
	return &SQLLeadRepository{
		db:     db,
		logger: logger,
	}
}

// Store saves a new Lead to the database. Leads are never updated or
// deduplicated; every analyze request produces a new row.
func (r *SQLLeadRepository) Store(l *lead.Lead) error {
	const query = `
		INSERT INTO leads (id, email, business_name, contact_name, domain, fingerprint,
		                   score, summary, tier, package_name, base_price, discount_percent,
		                   discounted_price, discount_code, discount_deadline_hours, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing lead insert", "id", l.ID, "email", l.Email)

	var contactName any
	if l.ContactName != nil {
		contactName = *l.ContactName
	}
	var score any
	if l.Score != nil {
		score = *l.Score
	}

	_, err := r.db.Exec(
		query,
		l.ID,
		l.Email,
		l.BusinessName,
		contactName,
		l.Domain,
		l.Fingerprint,
		score,
		l.Summary,
		string(l.Tier),
		l.PackageName,
		l.BasePrice,
		l.DiscountPercent,
		l.DiscountedPrice,
		l.DiscountCode,
		l.DiscountDeadlineHours,
		l.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		r.logger.Database().Error("Lead insert failed", "error", err.Error(), "id", l.ID, "email", l.Email)
		return err
	}

	r.logger.Database().Info("Lead insert completed", "id", l.ID, "email", l.Email, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// GetMetrics returns the aggregate lead count and the most recent lead timestamp.
func (r *SQLLeadRepository) GetMetrics() (*lead.Metrics, error) {
	const query = `SELECT COUNT(*), MAX(created_at) FROM leads`

	start := time.Now()
	r.logger.Database().Debug("Loading lead metrics")

	var count int
	var lastStr sql.NullString
	if err := r.db.QueryRow(query).Scan(&count, &lastStr); err != nil {
		r.logger.Database().Error("Failed to load lead metrics", "error", err.Error())
		return nil, err
	}

	metrics := &lead.Metrics{TotalLeads: count}
	if lastStr.Valid {
		t, err := time.Parse(time.RFC3339, lastStr.String)
		if err == nil {
			metrics.LastLeadAt = &t
		}
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return metrics, nil
}
