package result

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
)

type testEnv struct {
	svc      *Service
	results  ResultStore
	matches  match.MatchStore
	players  players.PlayerStore
	notifier *notifier.Mock
	metrics  *metrics.Mock
	clock    *clock.Mock
}

// setupTestEnv wires the result service against a temporary in-memory
// SQLite database, with the deterministic rating algorithm for predictable
// deltas.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	env := &testEnv{
		results:  New(db),
		matches:  match.New(db),
		players:  players.New(db),
		notifier: notifier.NewMock(),
		metrics:  metrics.NewMock(),
		clock:    clock.NewMock(time.Unix(1756200000, 0)),
	}
	algo := rating.NewDeterministic(rating.DefaultDeterministicConfig())
	env.svc = NewService(env.results, env.matches, env.players, algo, env.notifier, env.metrics, env.clock)
	return env
}

func (e *testEnv) createPlayers(t *testing.T) {
	t.Helper()
	require.NoError(t, e.players.Upsert(players.PlayerInfo{
		ID: "p-host", UserID: "host", Name: "Host", LevelValue: 3.5,
		Rating: 1000, RatingConfidence: 0.5,
	}))
	require.NoError(t, e.players.Upsert(players.PlayerInfo{
		ID: "p-opp", UserID: "opp", Name: "Opponent", LevelValue: 3.5,
		Rating: 1000, RatingConfidence: 0.5,
	}))
}

func (e *testEnv) createMatch(t *testing.T, matchType match.Type) *match.Match {
	t.Helper()
	m := &match.Match{
		ID:             uuid.NewString(),
		Type:           matchType,
		Status:         match.StatusScheduled,
		HostUserID:     "host",
		OpponentUserID: "opp",
		ScheduledAt:    e.clock.Now().Add(-2 * time.Hour),
		CreatedAt:      e.clock.Now().Add(-24 * time.Hour),
	}
	require.NoError(t, e.matches.Create(m))
	return m
}

var twoSets = []SetScore{
	{SetNumber: 1, HostGames: 6, OpponentGames: 4},
	{SetNumber: 2, HostGames: 6, OpponentGames: 3},
}

func TestService_Submit(t *testing.T) {
	env := setupTestEnv(t)
	env.createPlayers(t)
	m := env.createMatch(t, match.TypeCompetitive)

	r, err := env.svc.Submit(m.ID, twoSets, "host")
	require.NoError(t, err)

	assert.Equal(t, StatusSubmitted, r.Status)
	assert.Equal(t, "host", r.WinnerUserID)
	assert.Equal(t, "host", r.SubmittedBy)
	assert.NotNil(t, r.ConfirmedByHostAt)
	assert.Nil(t, r.ConfirmedByOpponentAt)

	// The match moved with the submission.
	got, err := env.matches.Get(m.ID)
	require.NoError(t, err)
	assert.Equal(t, match.StatusAwaitingConfirmation, got.Status)
	assert.Equal(t, 1, env.metrics.ResultsSubmittedCount)

	t.Run("resubmission returns the existing result", func(t *testing.T) {
		again, err := env.svc.Submit(m.ID, twoSets, "opp")
		require.NoError(t, err)
		assert.Equal(t, r.ID, again.ID)
		assert.Equal(t, 1, env.metrics.ResultsSubmittedCount)
	})
}

func TestService_Submit_Validation(t *testing.T) {
	env := setupTestEnv(t)
	env.createPlayers(t)
	m := env.createMatch(t, match.TypeCompetitive)

	cases := []struct {
		name string
		sets []SetScore
		user string
		kind apperr.Kind
	}{
		{"non-participant", twoSets, "stranger", apperr.KindForbidden},
		{"no sets on competitive", nil, "host", apperr.KindValidation},
		{"tied set", []SetScore{{SetNumber: 1, HostGames: 5, OpponentGames: 5}}, "host", apperr.KindValidation},
		{"winner under six games", []SetScore{{SetNumber: 1, HostGames: 5, OpponentGames: 3}}, "host", apperr.KindValidation},
		{"negative games", []SetScore{{SetNumber: 1, HostGames: 6, OpponentGames: -1}}, "host", apperr.KindValidation},
		{"tied sets overall", []SetScore{
			{SetNumber: 1, HostGames: 6, OpponentGames: 4},
			{SetNumber: 2, HostGames: 3, OpponentGames: 6},
		}, "host", apperr.KindValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.Submit(m.ID, tc.sets, tc.user)
			assert.Equal(t, tc.kind, apperr.KindOf(err))
		})
	}

	t.Run("unknown match", func(t *testing.T) {
		_, err := env.svc.Submit("nope", twoSets, "host")
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestService_Confirm_DualConfirmationCompletesAndRates(t *testing.T) {
	env := setupTestEnv(t)
	env.createPlayers(t)
	m := env.createMatch(t, match.TypeCompetitive)

	r, err := env.svc.Submit(m.ID, twoSets, "host")
	require.NoError(t, err)

	t.Run("submitter re-confirming is a no-op", func(t *testing.T) {
		got, err := env.svc.Confirm(r.ID, "host")
		require.NoError(t, err)
		assert.Equal(t, StatusSubmitted, got.Status)
	})

	got, err := env.svc.Confirm(r.ID, "opp")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)
	assert.NotNil(t, got.ConfirmedByOpponentAt)

	// The match completed and the ratings moved exactly once.
	gotMatch, err := env.matches.Get(m.ID)
	require.NoError(t, err)
	assert.Equal(t, match.StatusCompleted, gotMatch.Status)

	winner, err := env.players.Get("p-host")
	require.NoError(t, err)
	loser, err := env.players.Get("p-opp")
	require.NoError(t, err)
	assert.Equal(t, 1025.0, winner.Rating)
	assert.Equal(t, 975.0, loser.Rating)
	require.NotNil(t, winner.LastMatchAt)
	assert.Equal(t, env.clock.Now().Unix(), winner.LastMatchAt.Unix())

	for _, playerID := range []string{"p-host", "p-opp"} {
		history, err := env.players.History(playerID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, m.ID, history[0].MatchID)
	}

	// Both participants are notified once.
	assert.Len(t, env.notifier.CallsOfType("match.completed"), 2)
	assert.Equal(t, 1, env.metrics.ResultsConfirmedCount)
	assert.Equal(t, 1, env.metrics.MatchesCompletedCount)
	assert.Equal(t, 2, env.metrics.RatingUpdatesCount)

	t.Run("confirming a confirmed result stays a no-op", func(t *testing.T) {
		got, err := env.svc.Confirm(r.ID, "opp")
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, got.Status)

		// Still exactly one history row per player.
		history, err := env.players.History("p-host")
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})
}

func TestService_Confirm_Rejections(t *testing.T) {
	env := setupTestEnv(t)
	env.createPlayers(t)
	m := env.createMatch(t, match.TypeCompetitive)
	r, err := env.svc.Submit(m.ID, twoSets, "host")
	require.NoError(t, err)

	t.Run("non-participant", func(t *testing.T) {
		_, err := env.svc.Confirm(r.ID, "stranger")
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	})

	t.Run("unknown result", func(t *testing.T) {
		_, err := env.svc.Confirm("nope", "host")
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("disputed result", func(t *testing.T) {
		_, err := env.svc.Dispute(r.ID, "opp")
		require.NoError(t, err)
		_, err = env.svc.Confirm(r.ID, "opp")
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestService_Confirm_StatusPairingViolationFailsLoudly(t *testing.T) {
	env := setupTestEnv(t)
	env.createPlayers(t)
	m := env.createMatch(t, match.TypeCompetitive)
	r, err := env.svc.Submit(m.ID, twoSets, "host")
	require.NoError(t, err)

	// Drag the match back to scheduled behind the result's back: a
	// submitted result now pairs with a scheduled match.
	moved, err := env.matches.Transition(m.ID, match.StatusAwaitingConfirmation, match.StatusScheduled)
	require.NoError(t, err)
	require.True(t, moved)

	_, err = env.svc.Confirm(r.ID, "opp")
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))

	// Nothing was confirmed or rated.
	got, err := env.results.Get(r.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSubmitted, got.Status)
	history, err := env.players.History("p-host")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestService_Dispute(t *testing.T) {
	env := setupTestEnv(t)
	env.createPlayers(t)
	m := env.createMatch(t, match.TypeCompetitive)
	r, err := env.svc.Submit(m.ID, twoSets, "host")
	require.NoError(t, err)

	got, err := env.svc.Dispute(r.ID, "opp")
	require.NoError(t, err)
	assert.Equal(t, StatusDisputed, got.Status)
	assert.NotNil(t, got.DisputedByOpponentAt)

	// The match follows the result into the dead end, with no ratings.
	gotMatch, err := env.matches.Get(m.ID)
	require.NoError(t, err)
	assert.Equal(t, match.StatusDisputed, gotMatch.Status)

	p, err := env.players.Get("p-host")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, p.Rating)
	assert.Equal(t, 1, env.metrics.ResultsDisputedCount)
	assert.Empty(t, env.notifier.EmitCalls)
}

func TestService_Dispute_AfterConfirmationBlocked(t *testing.T) {
	env := setupTestEnv(t)
	env.createPlayers(t)
	m := env.createMatch(t, match.TypeCompetitive)
	r, err := env.svc.Submit(m.ID, twoSets, "host")
	require.NoError(t, err)
	_, err = env.svc.Confirm(r.ID, "opp")
	require.NoError(t, err)

	_, err = env.svc.Dispute(r.ID, "host")
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
}

func TestService_PracticeMatch(t *testing.T) {
	env := setupTestEnv(t)
	env.createPlayers(t)
	m := env.createMatch(t, match.TypePractice)

	// A practice result may carry zero sets and never moves the match.
	r, err := env.svc.Submit(m.ID, nil, "host")
	require.NoError(t, err)
	assert.Empty(t, r.WinnerUserID)

	got, err := env.matches.Get(m.ID)
	require.NoError(t, err)
	assert.Equal(t, match.StatusScheduled, got.Status)

	confirmed, err := env.svc.Confirm(r.ID, "opp")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)

	// No match transition, no ratings, no notifications.
	got, err = env.matches.Get(m.ID)
	require.NoError(t, err)
	assert.Equal(t, match.StatusScheduled, got.Status)
	p, err := env.players.Get("p-host")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, p.Rating)
	assert.Empty(t, env.notifier.EmitCalls)
}

func TestService_GuestsLeaveNoRatingTrace(t *testing.T) {
	env := setupTestEnv(t)
	// Only the host has a profile; the opponent is a guest.
	require.NoError(t, env.players.Upsert(players.PlayerInfo{
		ID: "p-host", UserID: "host", Name: "Host", Rating: 1000, RatingConfidence: 0.5,
	}))
	m := env.createMatch(t, match.TypeCompetitive)

	r, err := env.svc.Submit(m.ID, twoSets, "host")
	require.NoError(t, err)
	got, err := env.svc.Confirm(r.ID, "opp")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)

	// The match still completes, just without rating movement.
	gotMatch, err := env.matches.Get(m.ID)
	require.NoError(t, err)
	assert.Equal(t, match.StatusCompleted, gotMatch.Status)

	p, err := env.players.Get("p-host")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, p.Rating)
	history, err := env.players.History("p-host")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestService_AddSet(t *testing.T) {
	env := setupTestEnv(t)
	env.createPlayers(t)
	m := env.createMatch(t, match.TypeCompetitive)
	r, err := env.svc.Submit(m.ID, twoSets, "host")
	require.NoError(t, err)

	got, err := env.svc.AddSet(r.ID, SetScore{SetNumber: 3, HostGames: 7, OpponentGames: 5})
	require.NoError(t, err)
	assert.Len(t, got.Sets, 3)

	t.Run("duplicate set number", func(t *testing.T) {
		_, err := env.svc.AddSet(r.ID, SetScore{SetNumber: 3, HostGames: 6, OpponentGames: 2})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("confirmed result is immutable", func(t *testing.T) {
		_, err := env.svc.Confirm(r.ID, "opp")
		require.NoError(t, err)
		_, err = env.svc.AddSet(r.ID, SetScore{SetNumber: 4, HostGames: 6, OpponentGames: 0})
		assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	})
}
