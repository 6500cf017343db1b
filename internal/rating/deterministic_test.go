package rating

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministic_EvenMatchMovesBaseDelta(t *testing.T) {
	algo := NewDeterministic(DefaultDeterministicConfig())
	now := time.Now()

	winner, loser := algo.Update(
		Snapshot{Rating: 1000, Confidence: 0.5},
		Snapshot{Rating: 1000, Confidence: 0.5},
		now,
	)

	assert.Equal(t, 1025.0, winner.Rating)
	assert.Equal(t, 975.0, loser.Rating)
	assert.Equal(t, now, winner.LastMatchAt)
	assert.Equal(t, now, loser.LastMatchAt)
}

func TestDeterministic_UpsetMovesMoreThanExpectedWin(t *testing.T) {
	algo := NewDeterministic(DefaultDeterministicConfig())
	now := time.Now()

	// Underdog (1000) beats favorite (1200).
	upsetWinner, _ := algo.Update(
		Snapshot{Rating: 1000, Confidence: 0.5},
		Snapshot{Rating: 1200, Confidence: 0.5},
		now,
	)
	// Favorite (1200) beats underdog (1000).
	expectedWinner, _ := algo.Update(
		Snapshot{Rating: 1200, Confidence: 0.5},
		Snapshot{Rating: 1000, Confidence: 0.5},
		now,
	)

	upsetDelta := upsetWinner.Rating - 1000
	expectedDelta := expectedWinner.Rating - 1200
	assert.Greater(t, upsetDelta, expectedDelta)
}

func TestDeterministic_DeltaIsBounded(t *testing.T) {
	cfg := DefaultDeterministicConfig()
	algo := NewDeterministic(cfg)
	now := time.Now()

	cases := []struct {
		name         string
		winnerRating float64
		loserRating  float64
	}{
		{"huge upset", 100, 5000},
		{"huge favorite", 5000, 100},
		{"even", 1000, 1000},
		{"slight gap", 1000, 1100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			winner, loser := algo.Update(
				Snapshot{Rating: tc.winnerRating, Confidence: 0.5},
				Snapshot{Rating: tc.loserRating, Confidence: 0.5},
				now,
			)
			delta := winner.Rating - tc.winnerRating
			assert.GreaterOrEqual(t, delta, cfg.MinDelta)
			assert.LessOrEqual(t, delta, cfg.MaxDelta)
			// Symmetric: the loser gives up exactly what the winner gains.
			assert.InDelta(t, -delta, loser.Rating-tc.loserRating, 1e-9)
		})
	}
}

func TestDeterministic_RandomizedSnapshotsStayBounded(t *testing.T) {
	cfg := DefaultDeterministicConfig()
	algo := NewDeterministic(cfg)
	now := time.Now()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		winnerRating := rng.Float64()*10000 - 2000
		loserRating := rng.Float64()*10000 - 2000
		winnerIn := Snapshot{Rating: winnerRating, Confidence: rng.Float64()}
		loserIn := Snapshot{Rating: loserRating, Confidence: rng.Float64()}

		winner, loser := algo.Update(winnerIn, loserIn, now)

		delta := winner.Rating - winnerRating
		// The winner strictly gains, the loser strictly loses, and the
		// movement is bounded for any finite input.
		require.GreaterOrEqual(t, delta, cfg.MinDelta, "winner %v loser %v", winnerIn, loserIn)
		require.LessOrEqual(t, delta, cfg.MaxDelta, "winner %v loser %v", winnerIn, loserIn)
		require.InDelta(t, -delta, loser.Rating-loserRating, 1e-9)
		require.GreaterOrEqual(t, winner.Confidence, winnerIn.Confidence)
		require.LessOrEqual(t, winner.Confidence, 1.0)
		require.LessOrEqual(t, loser.Confidence, 1.0)
	}
}

func TestDeterministic_ConfidenceGainIsClamped(t *testing.T) {
	algo := NewDeterministic(DefaultDeterministicConfig())
	now := time.Now()

	winner, loser := algo.Update(
		Snapshot{Rating: 1000, Confidence: 0.98},
		Snapshot{Rating: 1000, Confidence: 0.5},
		now,
	)

	assert.Equal(t, 1.0, winner.Confidence)
	assert.InDelta(t, 0.55, loser.Confidence, 1e-9)
}
