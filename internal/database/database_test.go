package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	for _, table := range []string{
		"players", "tournaments", "matches", "match_participants",
		"games", "rally_stats", "match_statistics",
		"head_to_head", "head_to_head_processed", "ranking_snapshots",
	} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "querying for %s table should not produce an error", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDB_EnforcesForeignKeys(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	defer teardown()

	_, err = db.Exec(`INSERT INTO matches (tournament_id, match_date, round, discipline, best_of, status)
		VALUES (999, '2024-01-01', 'F', 'MS', 3, 'SCHEDULED')`)
	assert.Error(t, err, "inserting a match with a dangling tournament reference should fail")
}
