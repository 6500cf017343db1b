package match_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauv0809/courtside/internal/apperr"
	"github.com/mauv0809/courtside/internal/clock"
	"github.com/mauv0809/courtside/internal/database"
	"github.com/mauv0809/courtside/internal/match"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/notifier"
	"github.com/mauv0809/courtside/internal/players"
	"github.com/mauv0809/courtside/internal/rating"
	"github.com/mauv0809/courtside/internal/result"
)

type testEnv struct {
	svc      *match.Service
	matches  match.MatchStore
	results  result.ResultStore
	players  players.PlayerStore
	notifier *notifier.Mock
	metrics  *metrics.Mock
	clock    *clock.Mock
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	env := &testEnv{
		matches:  match.New(db),
		results:  result.New(db),
		players:  players.New(db),
		notifier: notifier.NewMock(),
		metrics:  metrics.NewMock(),
		clock:    clock.NewMock(time.Unix(1756200000, 0)),
	}
	algo := rating.NewDeterministic(rating.DefaultDeterministicConfig())
	env.svc = match.NewService(env.matches, env.results, env.players, algo, env.notifier, env.metrics, env.clock)
	return env
}

func (e *testEnv) createMatch(t *testing.T, scheduledAt time.Time) *match.Match {
	t.Helper()
	m := &match.Match{
		ID:             uuid.NewString(),
		Type:           match.TypeCompetitive,
		Status:         match.StatusScheduled,
		HostUserID:     "host",
		OpponentUserID: "opp",
		ScheduledAt:    scheduledAt,
		CreatedAt:      e.clock.Now(),
	}
	require.NoError(t, e.matches.Create(m))
	return m
}

func TestService_Cancel(t *testing.T) {
	env := setupTestEnv(t)
	m := env.createMatch(t, env.clock.Now().Add(2*time.Hour))

	t.Run("only the host may cancel", func(t *testing.T) {
		_, err := env.svc.Cancel(m.ID, "opp")
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	})

	got, err := env.svc.Cancel(m.ID, "host")
	require.NoError(t, err)
	assert.Equal(t, match.StatusCancelled, got.Status)

	t.Run("cancelled is terminal", func(t *testing.T) {
		_, err := env.svc.Cancel(m.ID, "host")
		assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	})
}

func TestService_Cancel_AfterStartBlocked(t *testing.T) {
	env := setupTestEnv(t)
	m := env.createMatch(t, env.clock.Now().Add(time.Hour))

	env.clock.Advance(time.Hour)

	_, err := env.svc.Cancel(m.ID, "host")
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	got, err := env.matches.Get(m.ID)
	require.NoError(t, err)
	assert.Equal(t, match.StatusScheduled, got.Status)
}

// confirmedResult plants a confirmed result for a match that is still
// scheduled, the inconsistency the admin completion path exists to repair.
func (e *testEnv) confirmedResult(t *testing.T, m *match.Match, winner string) {
	t.Helper()
	now := e.clock.Now()
	ok, err := e.results.Submit(&result.Result{
		ID:                    uuid.NewString(),
		MatchID:               m.ID,
		Status:                result.StatusConfirmed,
		WinnerUserID:          winner,
		SubmittedBy:           "host",
		ConfirmedByHostAt:     &now,
		ConfirmedByOpponentAt: &now,
		Sets: []result.SetScore{
			{SetNumber: 1, HostGames: 6, OpponentGames: 4},
		},
		CreatedAt: now,
	}, false)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestService_Complete(t *testing.T) {
	env := setupTestEnv(t)
	require.NoError(t, env.players.Upsert(players.PlayerInfo{
		ID: "p-host", UserID: "host", Rating: 1000, RatingConfidence: 0.5,
	}))
	require.NoError(t, env.players.Upsert(players.PlayerInfo{
		ID: "p-opp", UserID: "opp", Rating: 1200, RatingConfidence: 0.5,
	}))
	m := env.createMatch(t, env.clock.Now().Add(-3*time.Hour))
	env.confirmedResult(t, m, "host")

	got, err := env.svc.Complete(m.ID)
	require.NoError(t, err)
	assert.Equal(t, match.StatusCompleted, got.Status)

	// The underdog won, so the movement exceeds the base delta.
	winner, err := env.players.Get("p-host")
	require.NoError(t, err)
	loser, err := env.players.Get("p-opp")
	require.NoError(t, err)
	assert.Greater(t, winner.Rating, 1025.0)
	assert.InDelta(t, winner.Rating-1000, 1200-loser.Rating, 1e-9)

	assert.Len(t, env.notifier.CallsOfType("match.completed"), 2)
	assert.Equal(t, 1, env.metrics.MatchesCompletedCount)
	assert.Equal(t, 2, env.metrics.RatingUpdatesCount)

	t.Run("completing twice is rejected", func(t *testing.T) {
		_, err := env.svc.Complete(m.ID)
		assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

		// Ratings moved exactly once.
		history, err := env.players.History("p-host")
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})
}

func TestService_Complete_Rejections(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("unknown match", func(t *testing.T) {
		_, err := env.svc.Complete("nope")
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("not played yet", func(t *testing.T) {
		m := env.createMatch(t, env.clock.Now().Add(2*time.Hour))
		_, err := env.svc.Complete(m.ID)
		assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	})

	t.Run("no result", func(t *testing.T) {
		m := env.createMatch(t, env.clock.Now().Add(-2*time.Hour))
		_, err := env.svc.Complete(m.ID)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("result not confirmed", func(t *testing.T) {
		m := env.createMatch(t, env.clock.Now().Add(-2*time.Hour))
		now := env.clock.Now()
		ok, err := env.results.Submit(&result.Result{
			ID:                uuid.NewString(),
			MatchID:           m.ID,
			Status:            result.StatusSubmitted,
			WinnerUserID:      "host",
			SubmittedBy:       "host",
			ConfirmedByHostAt: &now,
			Sets:              []result.SetScore{{SetNumber: 1, HostGames: 6, OpponentGames: 4}},
			CreatedAt:         now,
		}, false)
		require.NoError(t, err)
		require.True(t, ok)

		_, err = env.svc.Complete(m.ID)
		assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	})
}
