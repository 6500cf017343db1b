package result

import (
	"database/sql"
	"sync"
	"time"

	"github.com/mauv0809/courtside/internal/apperr"
	"github.com/mauv0809/courtside/internal/match"
)

// store handles all database operations for results and their sets.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Status is the lifecycle state of a result.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusConfirmed Status = "confirmed"
	StatusDisputed  Status = "disputed"
)

// SetScore is one set's score, unique per (result, set number).
type SetScore struct {
	SetNumber     int `json:"set_number"`
	HostGames     int `json:"host_games"`
	OpponentGames int `json:"opponent_games"`
}

// Result is the descriptive, dually-confirmed record of a match's outcome.
type Result struct {
	ID                    string     `json:"id"`
	MatchID               string     `json:"match_id"`
	Status                Status     `json:"status"`
	WinnerUserID          string     `json:"winner_user_id,omitempty"`
	SubmittedBy           string     `json:"submitted_by"`
	ConfirmedByHostAt     *time.Time `json:"confirmed_by_host_at,omitempty"`
	ConfirmedByOpponentAt *time.Time `json:"confirmed_by_opponent_at,omitempty"`
	DisputedByHostAt      *time.Time `json:"disputed_by_host_at,omitempty"`
	DisputedByOpponentAt  *time.Time `json:"disputed_by_opponent_at,omitempty"`
	Sets                  []SetScore `json:"sets"`
	CreatedAt             time.Time  `json:"created_at"`
}

// pairing is the fixed bijection between result and match statuses for
// competitive matches. Practice matches are exempt.
var pairing = map[Status]match.Status{
	StatusDraft:     match.StatusScheduled,
	StatusSubmitted: match.StatusAwaitingConfirmation,
	StatusConfirmed: match.StatusCompleted,
	StatusDisputed:  match.StatusDisputed,
}

// checkPairing verifies the result/match status bijection. A violation is an
// internal-consistency bug and must fail loudly, never auto-heal.
func checkPairing(rs Status, ms match.Status) error {
	expected, ok := pairing[rs]
	if !ok || expected != ms {
		return apperr.New(apperr.KindInternal, "result status %s does not pair with match status %s", rs, ms)
	}
	return nil
}
