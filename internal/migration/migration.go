package migration

import (
	"context"

	"exodash/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator prepares a database for the subset store
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner creates the session subset schema. Every statement is
// idempotent, so it runs on each startup.
type MigrationRunner struct {
	version string
}

var _ Migrator = (*MigrationRunner)(nil)

func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

func (r *MigrationRunner) Version() string {
	return r.version
}

// Run creates the table before the index that reads it
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createSessionSubsetsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create session_subsets table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createSessionSubsetsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS session_subsets (
			session_id VARCHAR(64) NOT NULL,
			filter_key TEXT NOT NULL,
			payload BYTEA NOT NULL,
			stored_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			PRIMARY KEY (session_id, filter_key)
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_session_subsets_latest
		ON session_subsets (session_id, stored_at DESC)
	`)
	return err
}
