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
		"players", "availabilities", "invites", "matches",
		"results", "set_results", "rating_history",
	} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "querying for %s table should not produce an error", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDB_EnforcesUniqueInviteLink(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	defer teardown()

	_, err = db.Exec(`INSERT INTO matches (id, host_user_id, opponent_user_id, scheduled_at, invite_id, created_at)
		VALUES ('m1', 'u1', 'u2', 0, 'inv1', 0)`)
	require.NoError(t, err)

	// A second match for the same invite must be rejected at the schema level.
	_, err = db.Exec(`INSERT INTO matches (id, host_user_id, opponent_user_id, scheduled_at, invite_id, created_at)
		VALUES ('m2', 'u1', 'u3', 0, 'inv1', 0)`)
	assert.Error(t, err)
}
