package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exodash/internal/migration"
)

func openTestDB(t *testing.T) *sqlx.DB {
	dsn := os.Getenv("EXODASH_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("Skipping database test: EXODASH_TEST_DATABASE_URL not set")
	}
	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migration.NewRunner().Run(context.Background(), db))
	return db
}

func TestSubsetRepositoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewSubsetRepository(db)
	ctx := context.Background()
	session := uuid.NewString()
	t.Cleanup(func() {
		db.Exec(`DELETE FROM session_subsets WHERE session_id = $1`, session)
	})

	now := time.Now()
	repo.now = func() time.Time { return now }

	_, ok, err := repo.Get(ctx, session, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Put(ctx, session, "a", []byte(`{"x":1}`)))
	now = now.Add(time.Second)
	require.NoError(t, repo.Put(ctx, session, "b", []byte(`{"x":2}`)))

	got, ok, err := repo.Get(ctx, session, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"x":1}`, string(got))

	key, ok, err := repo.Latest(ctx, session)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", key)

	// upsert moves "a" to the front
	now = now.Add(time.Second)
	require.NoError(t, repo.Put(ctx, session, "a", []byte(`{"x":3}`)))
	key, _, _ = repo.Latest(ctx, session)
	assert.Equal(t, "a", key)
}

func TestSubsetRepositoryExpire(t *testing.T) {
	db := openTestDB(t)
	repo := NewSubsetRepository(db)
	ctx := context.Background()
	stale, fresh := uuid.NewString(), uuid.NewString()
	t.Cleanup(func() {
		db.Exec(`DELETE FROM session_subsets WHERE session_id IN ($1, $2)`, stale, fresh)
	})

	now := time.Now().Add(-2 * time.Hour)
	repo.now = func() time.Time { return now }
	require.NoError(t, repo.Put(ctx, stale, "k", []byte("{}")))

	now = time.Now()
	require.NoError(t, repo.Put(ctx, fresh, "k", []byte("{}")))

	n, err := repo.Expire(ctx, time.Hour)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)

	_, ok, _ := repo.Latest(ctx, stale)
	assert.False(t, ok)
	_, ok, _ = repo.Latest(ctx, fresh)
	assert.True(t, ok)
}
