package daily

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE daily_results (
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		secret_index INTEGER NOT NULL,
		guesses INTEGER NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now')),
		UNIQUE(user_id, date)
	)`)
	require.NoError(t, err)
	return NewStore(db)
}

func TestInsertAndAlreadyPlayed(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	played, err := st.AlreadyPlayed(ctx, "u1", "2025-06-15")
	require.NoError(t, err)
	assert.False(t, played)

	res := Result{UserID: "u1", Date: "2025-06-15", SecretIndex: 3, Guesses: 4, ElapsedMs: 90000}
	require.NoError(t, st.InsertResult(ctx, res))

	played, err = st.AlreadyPlayed(ctx, "u1", "2025-06-15")
	require.NoError(t, err)
	assert.True(t, played)

	// One result per user per day; a second insert is silently ignored.
	res.Guesses = 2
	require.NoError(t, st.InsertResult(ctx, res))
	rows, err := st.Leaderboard(ctx, "2025-06-15", 20)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].Guesses)
}

func TestLeaderboardOrdering(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.InsertResult(ctx, Result{UserID: "slow", Date: "2025-06-15", Guesses: 4, ElapsedMs: 120000}))
	require.NoError(t, st.InsertResult(ctx, Result{UserID: "fast", Date: "2025-06-15", Guesses: 3, ElapsedMs: 60000}))
	require.NoError(t, st.InsertResult(ctx, Result{UserID: "quick", Date: "2025-06-15", Guesses: 3, ElapsedMs: 30000}))
	require.NoError(t, st.InsertResult(ctx, Result{UserID: "other", Date: "2025-06-16", Guesses: 1, ElapsedMs: 1000}))

	rows, err := st.Leaderboard(ctx, "2025-06-15", 20)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "quick", rows[0].UserID)
	assert.Equal(t, "fast", rows[1].UserID)
	assert.Equal(t, "slow", rows[2].UserID)

	rows, err = st.Leaderboard(ctx, "2025-06-15", 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
