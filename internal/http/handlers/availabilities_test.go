package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauv0809/courtside/internal/availability"
	"github.com/mauv0809/courtside/internal/database"
)

func setupAvailabilityStore(t *testing.T) availability.AvailabilityStore {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)
	return availability.New(db)
}

func TestGetAvailabilityHandler(t *testing.T) {
	store := setupAvailabilityStore(t)
	base := time.Unix(1756200000, 0)
	require.NoError(t, store.Create(&availability.Availability{
		ID:          "a1",
		OwnerUserID: "host",
		StartTime:   base,
		EndTime:     base.Add(time.Hour),
		CreatedAt:   base,
	}))
	handler := GetAvailabilityHandler(store)

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/availabilities/a1", nil)
		req.SetPathValue("id", "a1")
		rec := httptest.NewRecorder()

		handler(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing availability is a 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/availabilities/nope", nil)
		req.SetPathValue("id", "nope")
		rec := httptest.NewRecorder()

		handler(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
