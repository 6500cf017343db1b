package rating

import (
	"math"
	"time"
)

// EloDecayConfig tunes the Elo variant with inactivity-driven confidence
// decay.
type EloDecayConfig struct {
	// KBase is the K-factor at full confidence.
	KBase float64
	// EloScale is the classic 400-point logistic scale.
	EloScale float64
	// InactivityThresholdDays is how long a player can sit out before
	// confidence starts to decay.
	InactivityThresholdDays int
	// DecayPerDay is the confidence lost per day beyond the threshold.
	DecayPerDay float64
	// ConfidenceFloor is the lowest confidence decay can reach.
	ConfidenceFloor float64
	// ConfidenceGain is added to confidence after each played match.
	ConfidenceGain float64
}

func DefaultEloDecayConfig() EloDecayConfig {
	return EloDecayConfig{
		KBase:                   32,
		EloScale:                400,
		InactivityThresholdDays: 30,
		DecayPerDay:             0.01,
		ConfidenceFloor:         0.1,
		ConfidenceGain:          0.05,
	}
}

// EloDecay is a standard Elo update where each player's K-factor grows as
// their confidence shrinks: an uncertain rating moves faster than a settled
// one. Confidence itself decays linearly with inactivity beyond a threshold
// and recovers a fixed amount per played match.
type EloDecay struct {
	cfg EloDecayConfig
}

func NewEloDecay(cfg EloDecayConfig) *EloDecay {
	return &EloDecay{cfg: cfg}
}

func (e *EloDecay) Name() string {
	return "elo-decay"
}

// ExpectedScore returns the probability of player a beating player b.
func (e *EloDecay) ExpectedScore(a, b float64) float64 {
	return 1 / (1 + math.Pow(10, (b-a)/e.cfg.EloScale))
}

// DecayedConfidence applies inactivity decay to a snapshot's confidence.
// A player who has never played (zero LastMatchAt) does not decay.
func (e *EloDecay) DecayedConfidence(s Snapshot, now time.Time) float64 {
	if s.LastMatchAt.IsZero() {
		return clamp(s.Confidence, 0, 1)
	}
	days := now.Sub(s.LastMatchAt).Hours() / 24
	over := days - float64(e.cfg.InactivityThresholdDays)
	if over <= 0 {
		return clamp(s.Confidence, 0, 1)
	}
	decayed := s.Confidence - over*e.cfg.DecayPerDay
	return clamp(decayed, e.cfg.ConfidenceFloor, 1)
}

func (e *EloDecay) kFactor(confidence float64) float64 {
	// Confidence 1 yields KBase; confidence 0 yields 2*KBase.
	return e.cfg.KBase * (2 - confidence)
}

func (e *EloDecay) Update(winner, loser Snapshot, now time.Time) (Snapshot, Snapshot) {
	winnerConf := e.DecayedConfidence(winner, now)
	loserConf := e.DecayedConfidence(loser, now)

	expected := e.ExpectedScore(winner.Rating, loser.Rating)

	winner.Rating += e.kFactor(winnerConf) * (1 - expected)
	loser.Rating -= e.kFactor(loserConf) * (1 - expected)

	winner.Confidence = clamp(winnerConf+e.cfg.ConfidenceGain, 0, 1)
	loser.Confidence = clamp(loserConf+e.cfg.ConfidenceGain, 0, 1)

	winner.LastMatchAt = now
	loser.LastMatchAt = now
	return winner, loser
}
