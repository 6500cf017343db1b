package match

import (
	"time"

	"github.com/mauv0809/courtside/internal/players"
)

// MatchStore defines the storage operations the match lifecycle needs.
type MatchStore interface {
	Create(m *Match) error
	Get(id string) (*Match, error)
	// Transition conditionally moves a match from one status to another and
	// reports whether this call performed the move. Zero rows affected means
	// a lost race, not an error.
	Transition(id string, from, to Status) (bool, error)
	// CompleteWithRatings performs the scheduled -> completed transition and,
	// only if this transaction performed it, applies the rating deltas and
	// history rows atomically with it.
	CompleteWithRatings(matchID string, from Status, deltas []players.RatingDelta, now time.Time) (bool, error)
}

// ResultSummary is the slice of a result the admin completion path needs.
type ResultSummary struct {
	Status       string
	SetCount     int
	WinnerUserID string
}

// ResultSource resolves the result attached to a match. Implemented by the
// result store; kept narrow so this package never depends on the full
// result lifecycle.
type ResultSource interface {
	SummaryForMatch(matchID string) (*ResultSummary, error)
}

// Notifier is the narrow notification sink the match lifecycle needs.
type Notifier interface {
	Emit(userID, eventType string, payload map[string]any) error
}
