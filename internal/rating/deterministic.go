package rating

import "time"

// DeterministicConfig tunes the fixed-step algorithm.
type DeterministicConfig struct {
	// BaseDelta is the nominal rating movement for an even match.
	BaseDelta float64
	// GapScale widens or shrinks the movement based on the rating gap.
	GapScale float64
	// MinDelta and MaxDelta bound the movement for any finite input.
	MinDelta float64
	MaxDelta float64
	// ConfidenceGain is added to both players' confidence per match.
	ConfidenceGain float64
}

func DefaultDeterministicConfig() DeterministicConfig {
	return DeterministicConfig{
		BaseDelta:      25,
		GapScale:       400,
		MinDelta:       5,
		MaxDelta:       50,
		ConfidenceGain: 0.05,
	}
}

// Deterministic is the simplest algorithm: the winner always gains, the
// loser always loses, and the step size scales with the rating gap. An
// upset (lower-rated player beats higher-rated) moves more points, a
// predictable win moves fewer, bounded by [MinDelta, MaxDelta] either way.
type Deterministic struct {
	cfg DeterministicConfig
}

func NewDeterministic(cfg DeterministicConfig) *Deterministic {
	return &Deterministic{cfg: cfg}
}

func (d *Deterministic) Name() string {
	return "deterministic"
}

func (d *Deterministic) Update(winner, loser Snapshot, now time.Time) (Snapshot, Snapshot) {
	gap := (loser.Rating - winner.Rating) / d.cfg.GapScale
	delta := clamp(d.cfg.BaseDelta*(1+gap), d.cfg.MinDelta, d.cfg.MaxDelta)

	winner.Rating += delta
	loser.Rating -= delta

	winner.Confidence = clamp(winner.Confidence+d.cfg.ConfidenceGain, 0, 1)
	loser.Confidence = clamp(loser.Confidence+d.cfg.ConfidenceGain, 0, 1)

	winner.LastMatchAt = now
	loser.LastMatchAt = now
	return winner, loser
}
