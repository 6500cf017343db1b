package rating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEloDecay_ExpectedScore(t *testing.T) {
	algo := NewEloDecay(DefaultEloDecayConfig())

	assert.InDelta(t, 0.5, algo.ExpectedScore(1000, 1000), 1e-9)
	// A 400-point favorite wins ~10/11 of the time.
	assert.InDelta(t, 10.0/11.0, algo.ExpectedScore(1400, 1000), 1e-9)
	// Complementary probabilities.
	assert.InDelta(t, 1.0, algo.ExpectedScore(1200, 1000)+algo.ExpectedScore(1000, 1200), 1e-9)
}

func TestEloDecay_ZeroSumAtEqualConfidence(t *testing.T) {
	algo := NewEloDecay(DefaultEloDecayConfig())
	now := time.Now()

	winner, loser := algo.Update(
		Snapshot{Rating: 1100, Confidence: 0.7, LastMatchAt: now},
		Snapshot{Rating: 900, Confidence: 0.7, LastMatchAt: now},
		now,
	)

	gained := winner.Rating - 1100
	lost := 900 - loser.Rating
	assert.InDelta(t, gained, lost, 1e-9)
	assert.Greater(t, gained, 0.0)
}

func TestEloDecay_LowConfidenceMovesFaster(t *testing.T) {
	algo := NewEloDecay(DefaultEloDecayConfig())
	now := time.Now()

	settled, _ := algo.Update(
		Snapshot{Rating: 1000, Confidence: 1.0, LastMatchAt: now},
		Snapshot{Rating: 1000, Confidence: 1.0, LastMatchAt: now},
		now,
	)
	uncertain, _ := algo.Update(
		Snapshot{Rating: 1000, Confidence: 0.2, LastMatchAt: now},
		Snapshot{Rating: 1000, Confidence: 0.2, LastMatchAt: now},
		now,
	)

	assert.Greater(t, uncertain.Rating-1000, settled.Rating-1000)
}

func TestEloDecay_DecayedConfidence(t *testing.T) {
	cfg := DefaultEloDecayConfig()
	algo := NewEloDecay(cfg)
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	t.Run("no decay inside threshold", func(t *testing.T) {
		s := Snapshot{Confidence: 0.8, LastMatchAt: now.AddDate(0, 0, -29)}
		assert.InDelta(t, 0.8, algo.DecayedConfidence(s, now), 1e-9)
	})

	t.Run("linear decay beyond threshold", func(t *testing.T) {
		// 40 days idle is 10 days over the threshold.
		s := Snapshot{Confidence: 0.8, LastMatchAt: now.AddDate(0, 0, -40)}
		assert.InDelta(t, 0.8-10*cfg.DecayPerDay, algo.DecayedConfidence(s, now), 1e-9)
	})

	t.Run("decay stops at the floor", func(t *testing.T) {
		s := Snapshot{Confidence: 0.8, LastMatchAt: now.AddDate(-2, 0, 0)}
		assert.InDelta(t, cfg.ConfidenceFloor, algo.DecayedConfidence(s, now), 1e-9)
	})

	t.Run("never played means no decay", func(t *testing.T) {
		s := Snapshot{Confidence: 0.5}
		assert.InDelta(t, 0.5, algo.DecayedConfidence(s, now), 1e-9)
	})
}

func TestEloDecay_UpdateRefreshesActivity(t *testing.T) {
	cfg := DefaultEloDecayConfig()
	algo := NewEloDecay(cfg)
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// 50 days idle decays confidence by 0.2 before the match is scored.
	winner, loser := algo.Update(
		Snapshot{Rating: 1000, Confidence: 0.9, LastMatchAt: now.AddDate(0, 0, -50)},
		Snapshot{Rating: 1000, Confidence: 0.9, LastMatchAt: now},
		now,
	)

	assert.InDelta(t, 0.9-0.2+cfg.ConfidenceGain, winner.Confidence, 1e-9)
	assert.InDelta(t, 0.9+cfg.ConfidenceGain, loser.Confidence, 1e-9)
	assert.Equal(t, now, winner.LastMatchAt)
	assert.Equal(t, now, loser.LastMatchAt)
}
