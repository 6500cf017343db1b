package availability

import (
	"database/sql"
	"sync"
	"time"
)

// store handles all database operations for availabilities.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Status is the lifecycle state of an availability. It only ever moves
// open -> matched, and only invite confirmation flips it.
type Status string

const (
	StatusOpen    Status = "open"
	StatusMatched Status = "matched"
)

// Availability is a user's declared open time-and-place intent to play.
// It is never itself a commitment.
type Availability struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	MinLevel    *float64  `json:"min_level,omitempty"`
	MaxLevel    *float64  `json:"max_level,omitempty"`
	Surface     *string   `json:"surface,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
