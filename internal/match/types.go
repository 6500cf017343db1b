package match

import (
	"database/sql"
	"sync"
	"time"
)

// store handles all database operations for matches.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Type distinguishes ranked play from friendly hits.
type Type string

const (
	TypeCompetitive Type = "competitive"
	TypePractice    Type = "practice"
)

// Status is the lifecycle state of a match.
type Status string

const (
	StatusScheduled            Status = "scheduled"
	StatusAwaitingConfirmation Status = "awaiting_confirmation"
	StatusCompleted            Status = "completed"
	StatusCancelled            Status = "cancelled"
	StatusDisputed             Status = "disputed"
)

// Match is a confirmed commitment between a host and an opponent. Once
// created, only the status field ever changes.
type Match struct {
	ID               string    `json:"id"`
	Type             Type      `json:"type"`
	Status           Status    `json:"status"`
	HostUserID       string    `json:"host_user_id"`
	OpponentUserID   string    `json:"opponent_user_id"`
	HostPlayerID     *string   `json:"host_player_id,omitempty"`
	OpponentPlayerID *string   `json:"opponent_player_id,omitempty"`
	ScheduledAt      time.Time `json:"scheduled_at"`
	InviteID         *string   `json:"invite_id,omitempty"`
	AvailabilityID   *string   `json:"availability_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// IsParticipant reports whether the given user plays in this match.
func (m *Match) IsParticipant(userID string) bool {
	return userID == m.HostUserID || userID == m.OpponentUserID
}
