package rating

import (
	"time"
)

// Snapshot is the engine's sole input/output contract: the rating fields
// read from and written back to a player. It carries no identity on purpose,
// so algorithms stay pure and know nothing about invites or matches.
type Snapshot struct {
	Rating      float64
	Confidence  float64
	LastMatchAt time.Time
}

// Algorithm computes new snapshots for the winner and loser of a completed
// competitive match. Implementations must be pure: no I/O, no hidden state,
// deterministic for a given input and instant.
type Algorithm interface {
	Name() string
	Update(winner, loser Snapshot, now time.Time) (Snapshot, Snapshot)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
