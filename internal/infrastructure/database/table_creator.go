// Package database provides schema instantiation
package database

import (
	"database/sql"
	"fmt"
)

// TableCreator handles the creation of the database schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the database tables and indexes.
func (tc *TableCreator) CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

// The unique index on reports.fingerprint is load-bearing: it is what turns a
// concurrent double-miss on the report cache into one winner and one re-read.
var tables = []string{
	`CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL UNIQUE,
		domain TEXT NOT NULL,
		score INTEGER,
		summary TEXT NOT NULL DEFAULT '',
		title TEXT,
		meta_description TEXT,
		h1_count INTEGER,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS leads (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		business_name TEXT NOT NULL,
		contact_name TEXT,
		domain TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		score INTEGER,
		summary TEXT NOT NULL DEFAULT '',
		tier TEXT NOT NULL,
		package_name TEXT NOT NULL,
		base_price REAL NOT NULL,
		discount_percent INTEGER NOT NULL,
		discounted_price REAL NOT NULL,
		discount_code TEXT NOT NULL,
		discount_deadline_hours INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		email TEXT,
		fingerprint TEXT,
		domain TEXT,
		tier TEXT,
		meta TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

var indexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_reports_fingerprint ON reports(fingerprint)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_email ON leads(email)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_fingerprint ON leads(fingerprint)`,
	`CREATE INDEX IF NOT EXISTS idx_events_event_type ON events(event_type)`,
	`CREATE INDEX IF NOT EXISTS idx_events_fingerprint ON events(fingerprint)`,
}
