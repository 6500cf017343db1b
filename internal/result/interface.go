package result

import (
	"time"

	"github.com/mauv0809/courtside/internal/match"
	"github.com/mauv0809/courtside/internal/players"
)

// ResultStore defines the storage operations the result lifecycle needs.
// Every multi-step mutation is a single transaction; partial application is
// never observable.
type ResultStore interface {
	Get(resultID string) (*Result, error)
	GetByMatch(matchID string) (*Result, error)
	// Submit inserts the result and its sets and, when transitionMatch is
	// set, conditionally moves the match scheduled -> awaiting_confirmation
	// in the same transaction. False means the match was no longer scheduled.
	Submit(r *Result, transitionMatch bool) (bool, error)
	// StampConfirmation records one party's confirmation while the result
	// stays submitted.
	StampConfirmation(resultID string, host bool, at time.Time) (bool, error)
	// ConfirmAndComplete flips the result submitted -> confirmed and, for
	// competitive matches, the match awaiting_confirmation -> completed plus
	// the rating write-back, all in one transaction. The returned flag is
	// true only if this transaction performed the transitions.
	ConfirmAndComplete(resultID string, host bool, at time.Time, matchID string, competitive bool, deltas []players.RatingDelta) (bool, error)
	// Dispute flips both the result and its match to disputed.
	Dispute(resultID string, host bool, at time.Time, matchID string) (bool, error)
	AddSet(resultID string, set SetScore) error
	// SummaryForMatch satisfies match.ResultSource for the admin completion
	// path.
	SummaryForMatch(matchID string) (*match.ResultSummary, error)
}

// Notifier is the narrow notification sink the result lifecycle needs.
type Notifier interface {
	Emit(userID, eventType string, payload map[string]any) error
}
