package invite

import (
	"time"

	"github.com/mauv0809/courtside/internal/availability"
	"github.com/mauv0809/courtside/internal/match"
	"github.com/mauv0809/courtside/internal/players"
)

// InviteStore defines the storage operations the invite lifecycle needs.
type InviteStore interface {
	Create(inv *Invite) error
	GetByToken(token string) (*Invite, error)
	GetByID(id string) (*Invite, error)
	// Accept atomically flips pending -> accepted (guarded on the current
	// status via a conditional update) and creates the match in the same
	// transaction. Reports whether this call performed the transition.
	Accept(inviteID string, m *match.Match) (bool, error)
	// MarkExpired, MarkDeclined and MarkCancelled are conditional
	// pending -> terminal transitions; false means the invite was no longer
	// pending.
	MarkExpired(id string) (bool, error)
	MarkDeclined(id string) (bool, error)
	MarkCancelled(id string) (bool, error)
	// ExpireAllPending sweeps every pending invite whose TTL passed before
	// the cutoff. Safe to run from cron any number of times.
	ExpireAllPending(cutoff time.Time) (int64, error)
}

// AvailabilitySource is the narrow slice of the availability store the
// invite lifecycle needs.
type AvailabilitySource interface {
	Get(id string) (*availability.Availability, error)
	MarkMatched(id string) (bool, error)
}

// PlayerResolver resolves a user to their player profile for eligibility
// checks. A nil profile means "guest, no profile", never an error.
type PlayerResolver interface {
	FindByUserID(userID string) (*players.PlayerInfo, error)
}

// Notifier is the narrow notification sink the invite lifecycle needs.
type Notifier interface {
	Emit(userID, eventType string, payload map[string]any) error
}
