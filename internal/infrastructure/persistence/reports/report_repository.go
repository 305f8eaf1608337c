// Package reports provides the concrete SQL-based implementation of the
// report cache repository. It is the only component that writes the reports table.
package reports

import (
	"database/sql"
	"time"

	"github.com/sitepulse/sitepulse-go/internal/domain/report"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/observability/logging"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/persistence/database"
)

// SQLReportRepository is the SQL-based implementation of report.Repository.
type SQLReportRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLReportRepository creates a new instance of the repository.
func NewSQLReportRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLReportRepository {
	return &SQLReportRepository{
		db:     db,
		logger: logger,
	}
}

// FindByFingerprint retrieves a Report by its fingerprint. A missing row
// returns (nil, nil).
func (r *SQLReportRepository) FindByFingerprint(fingerprint string) (*report.Report, error) {
	const query = `
		SELECT id, fingerprint, domain, score, summary, title, meta_description,
		       h1_count, created_at, updated_at
		FROM reports
		WHERE fingerprint = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading report by fingerprint", "fingerprint", fingerprint)

	row := r.db.QueryRow(query, fingerprint)
	rep, err := r.scanReport(row)
	if err != nil {
		r.logger.Database().Error("Failed to load report by fingerprint", "error", err.Error(), "fingerprint", fingerprint)
		return nil, err
	}

	if rep != nil {
		r.logger.Database().Info("Report loaded by fingerprint", "fingerprint", fingerprint, "duration", time.Since(start))
	}
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return rep, nil
}

// InsertIfAbsent saves a new Report unless one already exists for the same
// fingerprint. The insert is conditioned on the unique fingerprint index, so a
// losing concurrent writer observes inserted=false instead of an error.
func (r *SQLReportRepository) InsertIfAbsent(rep *report.Report) (bool, error) {
	const query = `
		INSERT INTO reports (id, fingerprint, domain, score, summary, title,
		                     meta_description, h1_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO NOTHING`

	start := time.Now()
	r.logger.Database().Debug("Executing report insert", "id", rep.ID, "fingerprint", rep.Fingerprint)

	result, err := r.db.Exec(
		query,
		rep.ID,
		rep.Fingerprint,
		rep.Domain,
		nullInt(rep.Score),
		rep.Summary,
		nullString(rep.Title),
		nullString(rep.MetaDescription),
		nullInt(rep.H1Count),
		rep.CreatedAt.UTC().Format(time.RFC3339),
		rep.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		r.logger.Database().Error("Report insert failed", "error", err.Error(), "id", rep.ID, "fingerprint", rep.Fingerprint)
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		r.logger.Database().Error("Report insert affected-rows check failed", "error", err.Error(), "id", rep.ID)
		return false, err
	}

	inserted := affected > 0
	if inserted {
		r.logger.Database().Info("Report insert completed", "id", rep.ID, "fingerprint", rep.Fingerprint, "duration", time.Since(start))
	} else {
		r.logger.Database().Info("Report insert lost to concurrent writer", "fingerprint", rep.Fingerprint, "duration", time.Since(start))
	}
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return inserted, nil
}

// scanReport is a helper function to scan a sql.Row into a Report struct.
func (r *SQLReportRepository) scanReport(row *sql.Row) (*report.Report, error) {
	var rep report.Report
	var score, h1Count sql.NullInt64
	var title, metaDescription sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&rep.ID,
		&rep.Fingerprint,
		&rep.Domain,
		&score,
		&rep.Summary,
		&title,
		&metaDescription,
		&h1Count,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, err
	}

	if score.Valid {
		v := int(score.Int64)
		rep.Score = &v
	}
	if h1Count.Valid {
		v := int(h1Count.Int64)
		rep.H1Count = &v
	}
	if title.Valid {
		rep.Title = &title.String
	}
	if metaDescription.Valid {
		rep.MetaDescription = &metaDescription.String
	}

	rep.CreatedAt, err = parseTimestamp(createdAtStr)
	if err != nil {
		return nil, err
	}
	rep.UpdatedAt, err = parseTimestamp(updatedAtStr)
	if err != nil {
		return nil, err
	}

	return &rep, nil
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		// Try alternative timestamp format if RFC3339 fails
		t, err = time.Parse("2006-01-02 15:04:05", s)
		if err != nil {
			return time.Time{}, err
		}
	}
	return t, nil
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
