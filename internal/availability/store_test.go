package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauv0809/courtside/internal/database"
)

func setupTestStore(t *testing.T) AvailabilityStore {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)
	return New(db)
}

func TestStore_CreateAndGet(t *testing.T) {
	store := setupTestStore(t)
	start := time.Unix(1756200000, 0)
	surface := "clay"
	minLevel := 2.5

	a := &Availability{
		ID:          "a1",
		OwnerUserID: "host",
		StartTime:   start,
		EndTime:     start.Add(2 * time.Hour),
		MinLevel:    &minLevel,
		Surface:     &surface,
		CreatedAt:   start.Add(-time.Hour),
	}
	require.NoError(t, store.Create(a))

	got, err := store.Get("a1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, StatusOpen, got.Status)
	assert.Equal(t, start, got.StartTime)
	require.NotNil(t, got.Surface)
	assert.Equal(t, "clay", *got.Surface)
	require.NotNil(t, got.MinLevel)
	assert.Equal(t, 2.5, *got.MinLevel)
	assert.Nil(t, got.MaxLevel)

	t.Run("missing availability is nil, not an error", func(t *testing.T) {
		got, err := store.Get("nope")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestStore_ListOpen(t *testing.T) {
	store := setupTestStore(t)
	base := time.Unix(1756200000, 0)

	for i, id := range []string{"a1", "a2", "a3"} {
		require.NoError(t, store.Create(&Availability{
			ID:          id,
			OwnerUserID: "host",
			StartTime:   base.Add(time.Duration(i) * 24 * time.Hour),
			EndTime:     base.Add(time.Duration(i)*24*time.Hour + 2*time.Hour),
			CreatedAt:   base,
		}))
	}
	// A matched availability never shows up in the listing.
	matched, err := store.MarkMatched("a2")
	require.NoError(t, err)
	require.True(t, matched)

	list, err := store.ListOpen(base, base.Add(7*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a1", list[0].ID)
	assert.Equal(t, "a3", list[1].ID)

	// The window bounds on start time.
	list, err = store.ListOpen(base.Add(time.Hour), base.Add(7*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a3", list[0].ID)
}

func TestStore_MarkMatched(t *testing.T) {
	store := setupTestStore(t)
	base := time.Unix(1756200000, 0)
	require.NoError(t, store.Create(&Availability{
		ID:          "a1",
		OwnerUserID: "host",
		StartTime:   base,
		EndTime:     base.Add(time.Hour),
		CreatedAt:   base,
	}))

	flipped, err := store.MarkMatched("a1")
	require.NoError(t, err)
	assert.True(t, flipped)

	// The flip only happens once.
	flipped, err = store.MarkMatched("a1")
	require.NoError(t, err)
	assert.False(t, flipped)

	got, err := store.Get("a1")
	require.NoError(t, err)
	assert.Equal(t, StatusMatched, got.Status)
}
