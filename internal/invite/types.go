package invite

import (
	"database/sql"
	"sync"
	"time"
)

// store handles all database operations for invites.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Status is the lifecycle state of an invite. Pending is the only live
// state; the other four are terminal sinks.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Visibility controls who can see an invite link.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// Conditions are the optional eligibility constraints an invite may carry.
// When any is set, a guest acceptor without a player profile is rejected.
type Conditions struct {
	MinLevel *float64 `json:"min_level,omitempty"`
	MaxLevel *float64 `json:"max_level,omitempty"`
	RadiusKm *float64 `json:"radius_km,omitempty"`
}

// Any reports whether at least one condition is set.
func (c Conditions) Any() bool {
	return c.MinLevel != nil || c.MaxLevel != nil || c.RadiusKm != nil
}

// Invite is a single-use, token-addressed, time-bounded claim against one
// availability. It is the only path to creating a match.
type Invite struct {
	ID             string     `json:"id"`
	Token          string     `json:"token"`
	AvailabilityID string     `json:"availability_id"`
	InviterUserID  string     `json:"inviter_user_id"`
	Status         Status     `json:"status"`
	Visibility     Visibility `json:"visibility"`
	Conditions     Conditions `json:"conditions"`
	MatchID        *string    `json:"match_id,omitempty"`
	ExpiresAt      time.Time  `json:"expires_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ExpiredAt reports whether the invite's TTL has passed at the given instant.
func (i *Invite) ExpiredAt(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
