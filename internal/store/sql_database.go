package store

import (
	"database/sql"

	"github.com/MKhiriev/go-canvas-vault/internal/logger"
	"github.com/MKhiriev/go-canvas-vault/migrations"
)

// DB wraps the raw SQL connection together with the driver name, an optional
// error classifier, and a logger. Repositories embed it so every query runs
// through one shared connection pool.
type DB struct {
	*sql.DB
	driver             string
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate applies all embedded migrations using the dialect of the driver
// this connection was opened with.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.driver)
}

// retryable reports whether err is a transient condition worth retrying.
// Connections without a classifier (sqlite) treat every error as final.
func (db *DB) retryable(err error) bool {
	if db.errorClassificator == nil {
		return false
	}
	return db.errorClassificator.Classify(err) == Retryable
}
