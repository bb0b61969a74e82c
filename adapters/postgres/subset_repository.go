package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SubsetRepository persists filtered subsets in session_subsets so they
// survive a restart and can be shared by several dashboard processes.
// It implements ports.SubsetStore.
type SubsetRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSubsetRepository creates a new subset repository
func NewSubsetRepository(db *sqlx.DB) *SubsetRepository {
	return &SubsetRepository{db: db, now: time.Now}
}

type subsetRow struct {
	SessionID string    `db:"session_id"`
	FilterKey string    `db:"filter_key"`
	Payload   []byte    `db:"payload"`
	StoredAt  time.Time `db:"stored_at"`
}

// Put saves or replaces the payload for (sessionID, key)
func (r *SubsetRepository) Put(ctx context.Context, sessionID, key string, payload []byte) error {
	query := `
		INSERT INTO session_subsets (session_id, filter_key, payload, stored_at)
		VALUES (:session_id, :filter_key, :payload, :stored_at)
		ON CONFLICT (session_id, filter_key) DO UPDATE SET
			payload = EXCLUDED.payload,
			stored_at = EXCLUDED.stored_at`

	_, err := r.db.NamedExecContext(ctx, query, subsetRow{
		SessionID: sessionID,
		FilterKey: key,
		Payload:   payload,
		StoredAt:  r.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to save subset: %w", err)
	}
	return nil
}

// Get retrieves the payload for (sessionID, key)
func (r *SubsetRepository) Get(ctx context.Context, sessionID, key string) ([]byte, bool, error) {
	var payload []byte
	err := r.db.GetContext(ctx, &payload, `
		SELECT payload FROM session_subsets
		WHERE session_id = $1 AND filter_key = $2`, sessionID, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get subset: %w", err)
	}
	return payload, true, nil
}

// Latest returns the most recently stored key of the session
func (r *SubsetRepository) Latest(ctx context.Context, sessionID string) (string, bool, error) {
	var key string
	err := r.db.GetContext(ctx, &key, `
		SELECT filter_key FROM session_subsets
		WHERE session_id = $1
		ORDER BY stored_at DESC
		LIMIT 1`, sessionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get latest subset: %w", err)
	}
	return key, true, nil
}

// Expire removes sessions whose newest subset is older than ttl
func (r *SubsetRepository) Expire(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := r.now().UTC().Add(-ttl)

	result, err := r.db.ExecContext(ctx, `
		DELETE FROM session_subsets
		WHERE session_id IN (
			SELECT session_id FROM session_subsets
			GROUP BY session_id
			HAVING MAX(stored_at) < $1
		)`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire subsets: %w", err)
	}

	deleted, _ := result.RowsAffected()
	return int(deleted), nil
}
